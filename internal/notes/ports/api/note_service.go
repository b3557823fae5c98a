// Package api определяет интерфейсы, которые сервис заметок предоставляет транспортному слою.
package api

import (
	"context"

	"notesapi/internal/notes/app"
	"notesapi/internal/notes/domain/entities"
)

// NoteService определяет операции над заметками, доступные обработчикам.
type NoteService interface {
	FindByID(ctx context.Context, id string) (*entities.Note, error)
	ListPage(ctx context.Context, page, size int) (*app.Page, error)
	SearchPage(ctx context.Context, keyword string, page, size int) (*app.Page, error)
	Create(ctx context.Context, draft entities.Draft) (*entities.Note, error)
	Update(ctx context.Context, id string, draft entities.Draft) (*entities.Note, error)
	DeleteByID(ctx context.Context, id string) error
}

// HealthChecker проверяет доступность хранилища.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
