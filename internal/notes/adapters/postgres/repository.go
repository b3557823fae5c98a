package postgres

import (
	"notesapi/internal/notes/ports/repositories"
)

// RepositoryFactory создает репозитории поверх общего пула соединений.
type RepositoryFactory struct {
	db Querier
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(db Querier) *RepositoryFactory {
	return &RepositoryFactory{db: db}
}

// NoteRepository возвращает репозиторий для работы с заметками.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return NewNoteRepository(f.db)
}
