// Package main реализует точку входа службы заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"notesapi/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitStorage          = "failed to initialize storage"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrSetMaxProcs          = "failed to set GOMAXPROCS"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug(ctx, fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warn(ctx, ErrSetMaxProcs, zap.Error(err))
	}

	exitCode := execute(ctx)

	if err := logger.Log(ctx).Sync(); err != nil {
		errMsg := err.Error()
		if !strings.Contains(errMsg, ErrSyncStderr) && !strings.Contains(errMsg, ErrSyncStdout) {
			_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err)
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
