// Package entities defines the domain entities for the notes service.
package entities

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrNoteNotFound сопоставляется с любой NotFoundError через errors.Is.
var ErrNoteNotFound = errors.New("note not found")

// Note представляет собой сохраненную заметку.
// Значение считается неизменяемым: изменения порождают новую Note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft содержит изменяемые клиентом поля заметки.
type Draft struct {
	Title   string
	Content string
	Tags    []string
}

// NewNote создает еще не сохраненную заметку; обе метки времени берутся из одного значения now.
func NewNote(draft Draft, now time.Time) *Note {
	return &Note{
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      cloneTags(draft.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply возвращает замену заметки: ID и CreatedAt сохраняются, остальные поля берутся из draft.
func (n *Note) Apply(draft Draft, now time.Time) *Note {
	return &Note{
		ID:        n.ID,
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      cloneTags(draft.Tags),
		CreatedAt: n.CreatedAt,
		UpdatedAt: now,
	}
}

// Clone возвращает глубокую копию заметки.
func (n *Note) Clone() *Note {
	clone := *n
	clone.Tags = cloneTags(n.Tags)
	return &clone
}

// IsPersisted сообщает, присвоен ли заметке идентификатор хранилищем.
func (n *Note) IsPersisted() bool {
	return n.ID != ""
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}

// NotFoundError возвращается, когда заметки с указанным ID не существует.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Note with ID %s not found.", e.ID)
}

// Is позволяет сравнивать ошибку с ErrNoteNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNoteNotFound
}

// NewNotFoundError создает ошибку отсутствия заметки.
func NewNotFoundError(id string) error {
	return &NotFoundError{ID: id}
}
