// Package cache содержит кэширующую обертку репозитория заметок поверх Redis.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notesapi/internal/notes/domain/entities"
	"notesapi/internal/notes/ports/repositories"
	"notesapi/pkg/logger"
)

// KeyPrefix - префикс ключей заметок в Redis.
const KeyPrefix = "notes:"

// Константы для логирования.
const (
	ErrorFailedToGet    = "failed to get note from redis"
	ErrorFailedToSet    = "failed to set note in redis"
	ErrorFailedToDelete = "failed to delete note from redis"
	ErrorFailedToDecode = "failed to decode cached note"
)

const scanBatch = 100

// DefaultInvalidationTTL используется, если срок маркера не задан.
const DefaultInvalidationTTL = 5 * time.Second

// tombstone занимает ключ после записи или удаления. Заполнение кэша идет через SET NX,
// поэтому чтение, начатое до записи, не может вернуть в Redis устаревшую копию.
var tombstone = []byte("-")

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NoteRepository кэширует FindByID в Redis и инвалидирует ключи при записи.
// Ошибки Redis не прерывают запрос: обращение уходит в основное хранилище.
//
// После Save и DeleteByID ключ на время invalidationTTL занят маркером, и чтения
// идут в основное хранилище. DeleteAll ставит маркеры только на закэшированные ключи.
type NoteRepository struct {
	next            repositories.NoteRepository
	client          *redis.Client
	ttl             time.Duration
	invalidationTTL time.Duration
}

// NewNoteRepository оборачивает next кэшем с временем жизни ttl.
// invalidationTTL должен превышать время самого долгого чтения из next.
func NewNoteRepository(
	next repositories.NoteRepository,
	client *redis.Client,
	ttl, invalidationTTL time.Duration,
) *NoteRepository {
	if invalidationTTL <= 0 {
		invalidationTTL = DefaultInvalidationTTL
	}
	return &NoteRepository{next: next, client: client, ttl: ttl, invalidationTTL: invalidationTTL}
}

// Key возвращает ключ Redis для заметки.
func Key(id string) string {
	return KeyPrefix + id
}

// FindByID читает заметку из кэша, а при промахе из основного хранилища.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "CachedNoteRepository.FindByID"), zap.String("noteID", id))

	raw, err := r.client.Get(ctx, Key(id)).Bytes()
	switch {
	case err == nil && bytes.Equal(raw, tombstone):
		log.Debug(ctx, "cache invalidated recently")
	case err == nil:
		var note entities.Note
		decodeErr := json.Unmarshal(raw, &note)
		if decodeErr == nil {
			log.Debug(ctx, "cache hit")
			return &note, nil
		}
		log.Warn(ctx, ErrorFailedToDecode, zap.Error(decodeErr))
		if err := r.client.Del(ctx, Key(id)).Err(); err != nil {
			log.Warn(ctx, ErrorFailedToDelete, zap.Error(err))
		}
	case errors.Is(err, redis.Nil):
		log.Debug(ctx, "cache miss")
	default:
		log.Warn(ctx, ErrorFailedToGet, zap.Error(err))
	}

	note, err := r.next.FindByID(ctx, id)
	if err != nil || note == nil {
		return note, err
	}

	r.store(ctx, note)
	return note, nil
}

// Save сохраняет заметку и сбрасывает ее ключ.
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	saved, err := r.next.Save(ctx, note)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, saved.ID)
	return saved, nil
}

// DeleteByID удаляет заметку и ее ключ.
func (r *NoteRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// DeleteAll удаляет все заметки и все ключи с префиксом KeyPrefix.
func (r *NoteRepository) DeleteAll(ctx context.Context) error {
	if err := r.next.DeleteAll(ctx); err != nil {
		return err
	}

	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		r.evict(ctx, iter.Val()[len(KeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		logger.Log(ctx).Warn(ctx, ErrorFailedToDelete, zap.Error(err))
	}
	return nil
}

// FindPage не кэшируется.
func (r *NoteRepository) FindPage(ctx context.Context, page, size int) ([]*entities.Note, error) {
	return r.next.FindPage(ctx, page, size)
}

// Count не кэшируется.
func (r *NoteRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

// SearchPage не кэшируется.
func (r *NoteRepository) SearchPage(ctx context.Context, keyword string, page, size int) ([]*entities.Note, error) {
	return r.next.SearchPage(ctx, keyword, page, size)
}

// CountByKeyword не кэшируется.
func (r *NoteRepository) CountByKeyword(ctx context.Context, keyword string) (int64, error) {
	return r.next.CountByKeyword(ctx, keyword)
}

func (r *NoteRepository) store(ctx context.Context, note *entities.Note) {
	raw, err := json.Marshal(note)
	if err != nil {
		logger.Log(ctx).Warn(ctx, ErrorFailedToSet, zap.Error(err))
		return
	}
	if err := r.client.SetNX(ctx, Key(note.ID), raw, r.ttl).Err(); err != nil {
		logger.Log(ctx).Warn(ctx, ErrorFailedToSet, zap.String("noteID", note.ID), zap.Error(err))
	}
}

func (r *NoteRepository) evict(ctx context.Context, id string) {
	if err := r.client.Set(ctx, Key(id), tombstone, r.invalidationTTL).Err(); err != nil {
		logger.Log(ctx).Warn(ctx, ErrorFailedToDelete, zap.String("noteID", id), zap.Error(err))
	}
}
