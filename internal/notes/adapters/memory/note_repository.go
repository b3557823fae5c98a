// Package memory provides an in-memory note repository for local runs and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notesapi/internal/notes/domain/entities"
	"notesapi/internal/notes/ports/repositories"
	"notesapi/pkg/logger"
)

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NoteRepository хранит заметки в map под RWMutex. Наружу отдаются только копии.
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]*entities.Note
}

// NewNoteRepository создает пустое хранилище.
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[string]*entities.Note)}
}

// FindByID возвращает копию заметки или nil, если ее нет.
func (r *NoteRepository) FindByID(_ context.Context, id string) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return nil, nil
	}
	return note.Clone(), nil
}

// Save вставляет заметку с новым UUID или заменяет существующую.
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	saved := note.Clone()
	if !saved.IsPersisted() {
		saved.ID = uuid.NewString()
	}

	r.mu.Lock()
	r.notes[saved.ID] = saved
	r.mu.Unlock()

	logger.Log(ctx).Debug(ctx, "note saved", zap.String("noteID", saved.ID))
	return saved.Clone(), nil
}

// DeleteByID удаляет заметку, если она есть.
func (r *NoteRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.notes, id)
	r.mu.Unlock()
	return nil
}

// DeleteAll очищает хранилище.
func (r *NoteRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	clear(r.notes)
	r.mu.Unlock()
	return nil
}

// FindPage возвращает страницу заметок.
func (r *NoteRepository) FindPage(_ context.Context, page, size int) ([]*entities.Note, error) {
	return paginate(r.filter(nil), page, size), nil
}

// Count возвращает количество заметок.
func (r *NoteRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.notes)), nil
}

// SearchPage возвращает страницу заметок, содержащих keyword.
func (r *NoteRepository) SearchPage(_ context.Context, keyword string, page, size int) ([]*entities.Note, error) {
	return paginate(r.filter(containsKeyword(keyword)), page, size), nil
}

// CountByKeyword возвращает количество заметок, содержащих keyword.
func (r *NoteRepository) CountByKeyword(_ context.Context, keyword string) (int64, error) {
	return int64(len(r.filter(containsKeyword(keyword)))), nil
}

func (r *NoteRepository) filter(match func(*entities.Note) bool) []*entities.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*entities.Note, 0, len(r.notes))
	for _, note := range r.notes {
		if match == nil || match(note) {
			notes = append(notes, note.Clone())
		}
	}
	return notes
}

func paginate(notes []*entities.Note, page, size int) []*entities.Note {
	slices.SortFunc(notes, func(a, b *entities.Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if repositories.EmptyPage(page, size) {
		return []*entities.Note{}
	}
	offset := repositories.Offset(page, size)
	if offset >= int64(len(notes)) {
		return []*entities.Note{}
	}
	end := min(offset+int64(size), int64(len(notes)))
	return notes[offset:end]
}

func containsKeyword(keyword string) func(*entities.Note) bool {
	needle := strings.ToLower(keyword)
	return func(note *entities.Note) bool {
		if strings.Contains(strings.ToLower(note.Title), needle) ||
			strings.Contains(strings.ToLower(note.Content), needle) {
			return true
		}
		return slices.ContainsFunc(note.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), needle)
		})
	}
}
