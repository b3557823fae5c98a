package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"notesapi/pkg/logger"
)

// Режимы логирования.
const (
	LogModeDevelopment = "development"
	LogModeProduction  = "production"
)

// ErrInvalidLogging возвращается для неизвестного уровня или режима логирования.
var ErrInvalidLogging = errors.New("invalid logging settings")

// LoggingConfig задает уровень и формат вывода zap.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development"`
}

// Validate отклоняет уровень, который не разбирает zapcore, и неизвестный режим.
func (l *LoggingConfig) Validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("%w: level %q", ErrInvalidLogging, l.Level)
	}
	switch l.Mode {
	case LogModeDevelopment, LogModeProduction:
		return nil
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidLogging, l.Mode)
	}
}

// GetEnvironment переводит режим в окружение pkg/logger.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == LogModeProduction {
		return logger.Production
	}
	return logger.Development
}
