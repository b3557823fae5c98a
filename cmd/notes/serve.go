package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "notesapi/internal/notes/adapters/http"
	"notesapi/internal/notes/adapters/services"
	"notesapi/internal/notes/app"
	"notesapi/internal/notes/db"
	"notesapi/pkg/logger"
	"notesapi/pkg/shutdown"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "note service started"
	LogServiceShutdownDone = "note service shutdown complete"
	LogClosingStorage      = "closing storage connections"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.Log(ctx)

	storage, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitStorage, err)
	}

	log.Info(ctx, LogServiceStarted,
		zap.String("storage_backend", storage.Backend()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	log.Info(ctx, LogInitServices)
	noteService := app.NewNoteService(storage.NoteRepository(), services.NewSystemClock())

	log.Info(ctx, LogInitHTTPServer)
	server := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	httpapi.SetupRouter(server, noteService, storage)

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	serveErr, err := listen(server, cfg.HTTP.GetAddress())
	if err != nil {
		if closeErr := storage.Close(ctx); closeErr != nil {
			log.Error(ctx, LogClosingStorage, zap.Error(closeErr))
		}
		return fmt.Errorf("%s: %w", ErrStartHTTPServer, err)
	}

	// Падение сервера после старта прерывает ожидание сигнала так же, как SIGTERM.
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	failed := make(chan error, 1)
	go func() {
		if err := <-serveErr; err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			failed <- err
			cancel()
		}
	}()

	shutdown.Wait(waitCtx, cfg.Shutdown.GetTimeout(),
		// HTTP останавливается раньше хранилища, чтобы запросы в обработке завершились.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			httpErr := server.ShutdownWithContext(ctx)

			log.Info(ctx, LogClosingStorage)
			if err := storage.Close(ctx); err != nil {
				return err
			}
			return httpErr
		},
	)

	log.Info(ctx, LogServiceShutdownDone)
	select {
	case err := <-failed:
		return fmt.Errorf("%s: %w", ErrStartHTTPServer, err)
	default:
		return nil
	}
}

// listen занимает адрес синхронно, чтобы ошибка привязки вернулась вызывающему,
// и обслуживает соединения в фоне. Канал получает результат работы сервера.
func listen(server *fiber.App, address string) (<-chan error, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	return serveErr, nil
}
