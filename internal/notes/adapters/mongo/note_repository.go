// Package mongo provides MongoDB implementations of repositories.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"notesapi/internal/notes/domain/entities"
	"notesapi/internal/notes/ports/repositories"
	"notesapi/pkg/logger"
)

// CollectionName - коллекция, в которой хранятся заметки.
const CollectionName = "notes"

// Константы для сообщений об ошибках.
const (
	ErrFindingNote   = "failed to get note"
	ErrInsertingNote = "failed to create note"
	ErrReplacingNote = "failed to replace note"
	ErrDeletingNote  = "failed to delete note"
	ErrDeletingAll   = "failed to delete notes"
	ErrListingNotes  = "failed to list notes"
	ErrCountingNotes = "failed to count notes"
	ErrDecodingNotes = "failed to decode notes"
	ErrCreatingIndex = "failed to create index"
)

// ErrInvalidNoteID возвращается при сохранении заметки с ID, не являющимся ObjectID.
var ErrInvalidNoteID = errors.New("invalid note id")

type noteDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Title     string        `bson:"title"`
	Content   string        `bson:"content"`
	Tags      []string      `bson:"tags"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// NoteRepository реализует интерфейс repositories.NoteRepository поверх коллекции MongoDB.
type NoteRepository struct {
	coll *mongo.Collection
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes создает индекс, обслуживающий порядок выдачи страниц.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    pageSort(),
		Options: options.Index().SetName("notes_created_at_id"),
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrCreatingIndex, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreatingIndex, err)
	}
	return nil
}

// FindByID получает заметку по ID. ID, не являющийся ObjectID, трактуется как отсутствующий.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.FindByID"))
	log.Debug(ctx, "getting note", zap.String("noteID", id))

	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	var doc noteDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug(ctx, "note not found", zap.String("noteID", id))
			return nil, nil
		}
		log.Error(ctx, ErrFindingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFindingNote, err)
	}

	return doc.toNote(), nil
}

// Save вставляет новую заметку или полностью заменяет существующую.
// Время в результате усечено до миллисекунд, с которыми его хранит MongoDB.
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Save"))

	if !note.IsPersisted() {
		doc := toDocument(note, bson.NewObjectID())
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			log.Error(ctx, ErrInsertingNote, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrInsertingNote, err)
		}
		log.Debug(ctx, "note created", zap.String("noteID", doc.ID.Hex()))
		return doc.toNote(), nil
	}

	oid, ok := objectID(note.ID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ErrReplacingNote, ErrInvalidNoteID)
	}

	doc := toDocument(note, oid)
	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		log.Error(ctx, ErrReplacingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrReplacingNote, err)
	}

	log.Debug(ctx, "note replaced", zap.String("noteID", note.ID))
	return doc.toNote(), nil
}

// DeleteByID удаляет заметку. Отсутствие документа ошибкой не считается.
func (r *NoteRepository) DeleteByID(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.DeleteByID"))

	oid, ok := objectID(id)
	if !ok {
		return nil
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		log.Error(ctx, ErrDeletingNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeletingNote, err)
	}

	log.Debug(ctx, "note deleted", zap.String("noteID", id), zap.Int64("deleted", result.DeletedCount))
	return nil
}

// DeleteAll удаляет все заметки.
func (r *NoteRepository) DeleteAll(ctx context.Context) error {
	result, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrDeletingAll, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeletingAll, err)
	}

	logger.Log(ctx).Info(ctx, "notes deleted", zap.Int64("deleted", result.DeletedCount))
	return nil
}

// FindPage получает страницу заметок.
func (r *NoteRepository) FindPage(ctx context.Context, page, size int) ([]*entities.Note, error) {
	return r.findPage(ctx, bson.D{}, page, size)
}

// Count возвращает общее количество заметок.
func (r *NoteRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.D{})
}

// SearchPage получает страницу заметок, содержащих keyword.
func (r *NoteRepository) SearchPage(ctx context.Context, keyword string, page, size int) ([]*entities.Note, error) {
	return r.findPage(ctx, searchFilter(keyword), page, size)
}

// CountByKeyword возвращает количество заметок, содержащих keyword.
func (r *NoteRepository) CountByKeyword(ctx context.Context, keyword string) (int64, error) {
	return r.count(ctx, searchFilter(keyword))
}

func (r *NoteRepository) findPage(ctx context.Context, filter bson.D, page, size int) ([]*entities.Note, error) {
	log := logger.Log(ctx)
	log.Debug(ctx, "listing notes", zap.Int("page", page), zap.Int("size", size))

	// Нулевой limit в MongoDB означает выборку без ограничения.
	if repositories.EmptyPage(page, size) {
		return []*entities.Note{}, nil
	}

	opts := options.Find().
		SetSort(pageSort()).
		SetSkip(repositories.Offset(page, size)).
		SetLimit(int64(size))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		log.Error(ctx, ErrListingNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrListingNotes, err)
	}

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		log.Error(ctx, ErrDecodingNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrDecodingNotes, err)
	}

	notes := make([]*entities.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toNote())
	}
	return notes, nil
}

func (r *NoteRepository) count(ctx context.Context, filter bson.D) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrCountingNotes, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrCountingNotes, err)
	}
	return total, nil
}

func pageSort() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
}

// searchFilter ищет keyword как литеральную подстроку без учета регистра.
func searchFilter(keyword string) bson.D {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "title", Value: pattern}},
		bson.D{{Key: "content", Value: pattern}},
		bson.D{{Key: "tags", Value: pattern}},
	}}}
}

func objectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, false
	}
	return oid, true
}

func toDocument(note *entities.Note, id bson.ObjectID) noteDocument {
	return noteDocument{
		ID:        id,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      append(make([]string, 0, len(note.Tags)), note.Tags...),
		CreatedAt: note.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt: note.UpdatedAt.UTC().Truncate(time.Millisecond),
	}
}

func (d noteDocument) toNote() *entities.Note {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entities.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
