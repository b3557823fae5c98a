package config

import (
	"time"

	"notesapi/pkg/retry"
)

// Поддерживаемые хранилища.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StorageConfig выбирает хранилище заметок и включает кэш.
type StorageConfig struct {
	Backend      string `yaml:"backend" env:"NOTES_STORAGE_BACKEND" env-default:"mongo"`
	CacheEnabled bool   `yaml:"cache_enabled" env:"NOTES_CACHE_ENABLED" env-default:"false"`

	ConnectAttempts int           `yaml:"connect_attempts" env:"NOTES_STORAGE_CONNECT_ATTEMPTS" env-default:"5"`
	ConnectBackoff  time.Duration `yaml:"connect_backoff" env:"NOTES_STORAGE_CONNECT_BACKOFF" env-default:"1s"`
}

// GetRetryPolicy возвращает политику повторных попыток подключения к хранилищу.
func (s *StorageConfig) GetRetryPolicy() retry.Policy {
	return retry.Policy{
		Attempts:       s.ConnectAttempts,
		InitialBackoff: s.ConnectBackoff,
		MaxBackoff:     8 * s.ConnectBackoff,
		Factor:         2,
	}
}
