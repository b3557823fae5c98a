package app

import "notesapi/internal/notes/domain/entities"

// Page - страница результатов с метаданными пагинации.
type Page struct {
	Items       []*entities.Note
	CurrentPage int
	PageSize    int
	TotalItems  int64
	TotalPages  int
}

// TotalPages вычисляет ceil(totalItems/size). Для пустого результата или size <= 0 возвращает 0.
func TotalPages(totalItems int64, size int) int {
	if totalItems <= 0 || size <= 0 {
		return 0
	}
	s := int64(size)
	return int((totalItems + s - 1) / s)
}

func newPage(items []*entities.Note, page, size int, total int64) *Page {
	if items == nil {
		items = []*entities.Note{}
	}
	return &Page{
		Items:       items,
		CurrentPage: page,
		PageSize:    size,
		TotalItems:  total,
		TotalPages:  TotalPages(total, size),
	}
}
