// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notesapi/internal/notes/domain/entities"
	"notesapi/internal/notes/ports/repositories"
	"notesapi/internal/notes/ports/services"
	"notesapi/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrFindNote       = "failed to find note"
	ErrSaveNote       = "failed to save note"
	ErrDeleteNote     = "failed to delete note"
	ErrListNotes      = "failed to list notes"
	ErrCountNotes     = "failed to count notes"
	ErrSearchNotes    = "failed to search notes"
	ErrCountByKeyword = "failed to count notes by keyword"
)

// NoteService оркестрирует вызовы репозитория: проставляет метки времени,
// проверяет существование заметок и собирает метаданные страниц.
type NoteService struct {
	noteRepo repositories.NoteRepository
	clock    services.Clock
}

// NewNoteService создает новый экземпляр NoteService.
func NewNoteService(noteRepo repositories.NoteRepository, clock services.Clock) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		clock:    clock,
	}
}

// FindByID возвращает заметку или *entities.NotFoundError.
func (s *NoteService) FindByID(ctx context.Context, id string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteService.FindByID"))
	log.Debug(ctx, "finding note", zap.String("noteID", id))

	return s.mustFind(ctx, id)
}

// ListPage возвращает страницу заметок, от новых к старым.
func (s *NoteService) ListPage(ctx context.Context, page, size int) (*Page, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteService.ListPage"))
	log.Debug(ctx, "listing notes", zap.Int("page", page), zap.Int("size", size))

	notes, err := s.noteRepo.FindPage(ctx, page, size)
	if err != nil {
		log.Error(ctx, ErrListNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}

	total, err := s.noteRepo.Count(ctx)
	if err != nil {
		log.Error(ctx, ErrCountNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCountNotes, err)
	}

	return newPage(notes, page, size, total), nil
}

// SearchPage возвращает страницу заметок, содержащих keyword.
func (s *NoteService) SearchPage(ctx context.Context, keyword string, page, size int) (*Page, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteService.SearchPage"))
	log.Debug(ctx, "searching notes",
		zap.String("keyword", keyword), zap.Int("page", page), zap.Int("size", size))

	notes, err := s.noteRepo.SearchPage(ctx, keyword, page, size)
	if err != nil {
		log.Error(ctx, ErrSearchNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrSearchNotes, err)
	}

	total, err := s.noteRepo.CountByKeyword(ctx, keyword)
	if err != nil {
		log.Error(ctx, ErrCountByKeyword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCountByKeyword, err)
	}

	return newPage(notes, page, size, total), nil
}

// Create сохраняет новую заметку. CreatedAt и UpdatedAt получают одно и то же время.
func (s *NoteService) Create(ctx context.Context, draft entities.Draft) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteService.Create"))
	log.Debug(ctx, "creating note")

	note := entities.NewNote(draft, s.clock.Now())

	saved, err := s.noteRepo.Save(ctx, note)
	if err != nil {
		log.Error(ctx, ErrSaveNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrSaveNote, err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", saved.ID))
	return saved, nil
}

// Update заменяет title, content и tags существующей заметки.
// ID и CreatedAt сохраняются, UpdatedAt обновляется.
func (s *NoteService) Update(ctx context.Context, id string, draft entities.Draft) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteService.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", id))

	existing, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	saved, err := s.noteRepo.Save(ctx, existing.Apply(draft, s.clock.Now()))
	if err != nil {
		log.Error(ctx, ErrSaveNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrSaveNote, err)
	}

	return saved, nil
}

// DeleteByID удаляет заметку после проверки ее существования.
func (s *NoteService) DeleteByID(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteService.DeleteByID"))
	log.Debug(ctx, "deleting note", zap.String("noteID", id))

	existing, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}

	if err := s.noteRepo.DeleteByID(ctx, existing.ID); err != nil {
		log.Error(ctx, ErrDeleteNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteNote, err)
	}

	return nil
}

func (s *NoteService) mustFind(ctx context.Context, id string) (*entities.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrFindNote, zap.String("noteID", id), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFindNote, err)
	}
	if note == nil {
		logger.Log(ctx).Debug(ctx, "note not found", zap.String("noteID", id))
		return nil, entities.NewNotFoundError(id)
	}
	return note, nil
}
