package http

import (
	"notesapi/internal/notes/app"
	"notesapi/internal/notes/domain/entities"
)

// NoteRequest - тело запросов на создание и обновление заметки.
type NoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"required,min=1,dive,required"`
}

func (r NoteRequest) draft() entities.Draft {
	return entities.Draft{Title: r.Title, Content: r.Content, Tags: r.Tags}
}

type pageQuery struct {
	Page int `json:"page" validate:"min=0"`
	Size int `json:"size" validate:"min=1,max=100"`
}

type searchQuery struct {
	Keyword string `json:"keyword" validate:"required"`
	Page    int    `json:"page" validate:"min=0"`
	Size    int    `json:"size" validate:"min=1,max=100"`
}

// PageResponse - страница заметок с метаданными пагинации.
type PageResponse struct {
	Items       []*entities.Note `json:"items"`
	CurrentPage int              `json:"current_page"`
	PageSize    int              `json:"page_size"`
	TotalItems  int64            `json:"total_items"`
	TotalPages  int              `json:"total_pages"`
}

func newPageResponse(page *app.Page) PageResponse {
	return PageResponse{
		Items:       page.Items,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
	}
}

// FieldError описывает ошибку валидации одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse - тело всех ответов с ошибкой.
type ErrorResponse struct {
	Error       string       `json:"error"`
	Message     string       `json:"message,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
}
