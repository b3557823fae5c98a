// Package db выбирает и подключает хранилище заметок согласно конфигурации.
package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"notesapi/internal/notes/adapters/cache"
	"notesapi/internal/notes/adapters/memory"
	mongoadapter "notesapi/internal/notes/adapters/mongo"
	pgadapter "notesapi/internal/notes/adapters/postgres"
	"notesapi/internal/notes/config"
	"notesapi/internal/notes/ports/repositories"
	mongodb "notesapi/pkg/db/mongo"
	"notesapi/pkg/db/postgres"
	redisdb "notesapi/pkg/db/redis"
	"notesapi/pkg/logger"
	"notesapi/pkg/retry"
)

// Константы для сообщений logger.
const (
	LogStorageInitializing = "initializing notes storage"
	LogStorageInitialized  = "notes storage initialized successfully"
	LogCacheEnabled        = "redis cache enabled"
	LogMigrationStarting   = "starting database migrations for notes service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations      = "failed to apply notes database migrations"
	ErrDBConnection      = "failed to connect to notes database"
	ErrCacheConnection   = "failed to connect to notes cache"
	ErrGetPath           = "failed to get path"
	ErrDBCheckConnection = "error checking the database connection"
	ErrEnsureIndexes     = "failed to create notes indexes"
)

// ErrUnsupportedBackend возвращается, если конфигурация указывает неизвестное хранилище.
var ErrUnsupportedBackend = errors.New("unsupported storage backend")

// Storage владеет подключениями выбранного хранилища и предоставляет репозиторий заметок.
type Storage struct {
	backend string
	policy  retry.Policy
	repo    repositories.NoteRepository
	ping    func(ctx context.Context) error
	closers []func(ctx context.Context) error
}

// New подключает хранилище, указанное в cfg.Storage, и при необходимости оборачивает его кэшем.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Log(ctx).With(zap.String("backend", cfg.Storage.Backend))
	log.Info(ctx, LogStorageInitializing)

	storage := &Storage{backend: cfg.Storage.Backend, policy: cfg.Storage.GetRetryPolicy()}

	var err error
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		err = storage.openMongo(ctx, &cfg.Mongo)
	case config.BackendPostgres:
		err = storage.openPostgres(ctx, &cfg.Postgres)
	case config.BackendMemory:
		storage.repo = memory.NewNoteRepository()
		storage.ping = func(context.Context) error { return nil }
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Storage.Backend)
	}
	if err != nil {
		storage.closeQuietly(ctx)
		return nil, err
	}

	if cfg.Storage.CacheEnabled {
		if err := storage.enableCache(ctx, &cfg.Redis); err != nil {
			storage.closeQuietly(ctx)
			return nil, err
		}
		log.Info(ctx, LogCacheEnabled, zap.Duration("ttl", cfg.Redis.TTL))
	}

	log.Info(ctx, LogStorageInitialized)
	return storage, nil
}

func (s *Storage) openMongo(ctx context.Context, cfg *config.MongoConfig) error {
	var database *mongodb.Database
	err := retry.Do(ctx, "mongo connect", s.policy, func(ctx context.Context) error {
		var err error
		database, err = mongodb.New(ctx, mongodb.Config{
			URI:            cfg.URI,
			Database:       cfg.Database,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrDBConnection, err)
	}
	s.closers = append(s.closers, database.Close)

	repo := mongoadapter.NewNoteRepository(database.DB())
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrEnsureIndexes, err)
	}

	s.repo = repo
	s.ping = database.Ping
	return nil
}

func (s *Storage) openPostgres(ctx context.Context, cfg *config.PostgresConfig) error {
	var database *postgres.Database
	err := retry.Do(ctx, "postgres connect", s.policy, func(ctx context.Context) error {
		var err error
		database, err = postgres.New(ctx, cfg.GetPoolConfig())
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrDBConnection, err)
	}
	s.closers = append(s.closers, func(ctx context.Context) error {
		database.Close(ctx)
		return nil
	})

	s.repo = pgadapter.NewRepositoryFactory(database.Pool()).NoteRepository()
	s.ping = database.Ping
	return nil
}

func (s *Storage) enableCache(ctx context.Context, cfg *config.RedisConfig) error {
	client, err := redisdb.NewClient(ctx, cfg.GetClientConfig())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCacheConnection, err)
	}
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	s.repo = cache.NewNoteRepository(s.repo, client, cfg.TTL, cfg.InvalidationTTL)
	return nil
}

// Backend возвращает имя выбранного хранилища.
func (s *Storage) Backend() string {
	return s.backend
}

// NoteRepository возвращает репозиторий заметок.
func (s *Storage) NoteRepository() repositories.NoteRepository {
	return s.repo
}

// Ping проверяет соединение с хранилищем.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrDBCheckConnection, err)
	}
	return nil
}

// Close закрывает все подключения в обратном порядке.
func (s *Storage) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Storage) closeQuietly(ctx context.Context) {
	if err := s.Close(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to release storage after init error", zap.Error(err))
	}
}

// Migrate применяет или откатывает миграции PostgreSQL из cfg.MigrationsPath.
func Migrate(ctx context.Context, cfg *config.PostgresConfig, direction postgres.Direction) error {
	migrationsPath, err := filepath.Abs(cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", ErrDBMigrations, ErrGetPath, err)
	}

	logger.Log(ctx).Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
	if err := postgres.Migrate(ctx, cfg.GetConnectionURL(), migrationsPath, direction); err != nil {
		return fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}
	return nil
}
