// Package mongo содержит подключение к MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"notesapi/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting = "connecting to MongoDB"
	LogConnected  = "successfully connected to MongoDB"
	LogClosing    = "closing MongoDB connection"
)

// Константы для сообщений об ошибках.
const (
	ErrConnect    = "failed to connect to MongoDB"
	ErrPing       = "failed to ping MongoDB"
	ErrDisconnect = "failed to disconnect from MongoDB"
)

const defaultConnectTimeout = 10 * time.Second

// Config содержит параметры подключения.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Database представляет подключение к базе MongoDB.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// New подключается к MongoDB и проверяет доступность primary.
func New(ctx context.Context, cfg Config) (*Database, error) {
	log := logger.Log(ctx).With(zap.String("database", cfg.Database))
	log.Info(ctx, LogConnecting)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		log.Error(ctx, ErrConnect, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	database := &Database{client: client, db: client.Database(cfg.Database)}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := database.Ping(pingCtx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		log.Error(ctx, ErrPing, zap.Error(err))
		return nil, err
	}

	log.Info(ctx, LogConnected)
	return database, nil
}

// DB возвращает базу данных.
func (d *Database) DB() *mongo.Database {
	return d.db
}

// Ping проверяет доступность primary.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%s: %w", ErrPing, err)
	}
	return nil
}

// Close отключает клиента.
func (d *Database) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing)
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrDisconnect, err)
	}
	return nil
}
