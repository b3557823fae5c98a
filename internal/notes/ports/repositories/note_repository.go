// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"

	"notesapi/internal/notes/domain/entities"
)

// NoteRepository определяет контракт хранилища заметок, не зависящий от конкретной БД.
//
// Отсутствие заметки не является ошибкой: FindByID возвращает (nil, nil).
// Страницы упорядочены по created_at по убыванию, при равенстве по id по возрастанию.
type NoteRepository interface {
	FindByID(ctx context.Context, id string) (*entities.Note, error)
	// Save вставляет заметку без ID или полностью заменяет запись с тем же ID.
	Save(ctx context.Context, note *entities.Note) (*entities.Note, error)
	// DeleteByID идемпотентен: удаление несуществующего ID не является ошибкой.
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	FindPage(ctx context.Context, page, size int) ([]*entities.Note, error)
	Count(ctx context.Context) (int64, error)
	// SearchPage фильтрует заметки, у которых title, content или любой тег
	// содержит keyword без учета регистра.
	SearchPage(ctx context.Context, keyword string, page, size int) ([]*entities.Note, error)
	CountByKeyword(ctx context.Context, keyword string) (int64, error)
}

// Offset возвращает число пропускаемых записей для страницы.
func Offset(page, size int) int64 {
	return int64(page) * int64(size)
}

// EmptyPage сообщает, что страница заведомо пуста: отрицательный номер или неположительный размер.
func EmptyPage(page, size int) bool {
	return page < 0 || size <= 0
}
