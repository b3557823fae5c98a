// Package services содержит реализации сервисных портов.
package services

import (
	"time"

	"notesapi/internal/notes/ports/services"
)

var _ services.Clock = SystemClock{}

// SystemClock возвращает системное время в UTC.
type SystemClock struct{}

// NewSystemClock создает системные часы.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now возвращает текущее время в UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock всегда возвращает одно и то же время.
type FixedClock struct {
	T time.Time
}

// Now возвращает зафиксированное время.
func (c FixedClock) Now() time.Time {
	return c.T
}
