// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notesapi/internal/notes/domain/entities"
	"notesapi/internal/notes/ports/repositories"
	"notesapi/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrFindingNote   = "failed to get note"
	ErrInsertingNote = "failed to create note"
	ErrReplacingNote = "failed to replace note"
	ErrDeletingNote  = "failed to delete note"
	ErrDeletingAll   = "failed to delete notes"
	ErrListingNotes  = "failed to list notes"
	ErrCountingNotes = "failed to count notes"
	ErrScanningNote  = "failed to scan note"
	ErrIteratingRows = "error iterating rows"
)

const (
	selectColumns = `SELECT id::text, title, content, tags, created_at, updated_at FROM notes`
	orderAndPage  = ` ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d`
	keywordFilter = ` WHERE title ILIKE $1 ESCAPE '\' OR content ILIKE $1 ESCAPE '\'` +
		` OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $1 ESCAPE '\')`

	queryFindByID = selectColumns + ` WHERE id = $1`
	queryInsert   = `INSERT INTO notes (title, content, tags, created_at, updated_at) ` +
		`VALUES ($1, $2, $3, $4, $5) RETURNING id::text`
	queryReplace = `INSERT INTO notes (id, title, content, tags, created_at, updated_at) ` +
		`VALUES ($1, $2, $3, $4, $5, $6) ` +
		`ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content, ` +
		`tags = EXCLUDED.tags, created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at`
	queryDeleteByID = `DELETE FROM notes WHERE id = $1`
	queryDeleteAll  = `DELETE FROM notes`
	queryCount      = `SELECT COUNT(*) FROM notes`
)

var (
	queryFindPage       = selectColumns + fmt.Sprintf(orderAndPage, 1, 2)
	querySearchPage     = selectColumns + keywordFilter + fmt.Sprintf(orderAndPage, 2, 3)
	queryCountByKeyword = queryCount + keywordFilter
)

// Querier - подмножество pgxpool.Pool, используемое репозиторием.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	db Querier
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(db Querier) repositories.NoteRepository {
	return &NoteRepository{db: db}
}

// FindByID получает заметку по ID. ID, не являющийся UUID, трактуется как отсутствующий.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.FindByID"))
	log.Debug(ctx, "getting note", zap.String("noteID", id))

	if !isUUID(id) {
		return nil, nil
	}

	note, err := scanNote(r.db.QueryRow(ctx, queryFindByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", id))
			return nil, nil
		}
		log.Error(ctx, ErrFindingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFindingNote, err)
	}

	return note, nil
}

// Save вставляет новую заметку или полностью заменяет существующую.
// TIMESTAMPTZ хранит микросекунды, поэтому время усекается до записи.
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Save"))

	saved := note.Clone()
	saved.CreatedAt = note.CreatedAt.Truncate(time.Microsecond)
	saved.UpdatedAt = note.UpdatedAt.Truncate(time.Microsecond)

	if !note.IsPersisted() {
		log.Debug(ctx, "creating new note")
		err := r.db.QueryRow(ctx, queryInsert,
			note.Title, note.Content, saved.Tags, saved.CreatedAt, saved.UpdatedAt,
		).Scan(&saved.ID)
		if err != nil {
			log.Error(ctx, ErrInsertingNote, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrInsertingNote, err)
		}
		log.Debug(ctx, "note created", zap.String("noteID", saved.ID))
		return saved, nil
	}

	log.Debug(ctx, "replacing note", zap.String("noteID", note.ID))
	if _, err := r.db.Exec(ctx, queryReplace,
		note.ID, note.Title, note.Content, saved.Tags, saved.CreatedAt, saved.UpdatedAt,
	); err != nil {
		log.Error(ctx, ErrReplacingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrReplacingNote, err)
	}

	return saved, nil
}

// DeleteByID удаляет заметку. Отсутствие строки ошибкой не считается.
func (r *NoteRepository) DeleteByID(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.DeleteByID"))
	log.Debug(ctx, "deleting note", zap.String("noteID", id))

	if !isUUID(id) {
		return nil
	}

	result, err := r.db.Exec(ctx, queryDeleteByID, id)
	if err != nil {
		log.Error(ctx, ErrDeletingNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeletingNote, err)
	}

	log.Debug(ctx, "note deleted", zap.Int64("rows", result.RowsAffected()))
	return nil
}

// DeleteAll удаляет все заметки.
func (r *NoteRepository) DeleteAll(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.DeleteAll"))

	result, err := r.db.Exec(ctx, queryDeleteAll)
	if err != nil {
		log.Error(ctx, ErrDeletingAll, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeletingAll, err)
	}

	log.Info(ctx, "notes deleted", zap.Int64("rows", result.RowsAffected()))
	return nil
}

// FindPage получает страницу заметок.
func (r *NoteRepository) FindPage(ctx context.Context, page, size int) ([]*entities.Note, error) {
	logger.Log(ctx).Debug(ctx, "listing notes", zap.Int("page", page), zap.Int("size", size))
	if repositories.EmptyPage(page, size) {
		return []*entities.Note{}, nil
	}

	return r.queryNotes(ctx, queryFindPage, size, repositories.Offset(page, size))
}

// Count возвращает общее количество заметок.
func (r *NoteRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, queryCount)
}

// SearchPage получает страницу заметок, содержащих keyword.
func (r *NoteRepository) SearchPage(ctx context.Context, keyword string, page, size int) ([]*entities.Note, error) {
	logger.Log(ctx).Debug(ctx, "searching notes",
		zap.String("keyword", keyword), zap.Int("page", page), zap.Int("size", size))
	if repositories.EmptyPage(page, size) {
		return []*entities.Note{}, nil
	}

	return r.queryNotes(ctx, querySearchPage, LikePattern(keyword), size, repositories.Offset(page, size))
}

// CountByKeyword возвращает количество заметок, содержащих keyword.
func (r *NoteRepository) CountByKeyword(ctx context.Context, keyword string) (int64, error) {
	return r.count(ctx, queryCountByKeyword, LikePattern(keyword))
}

func (r *NoteRepository) queryNotes(ctx context.Context, query string, args ...any) ([]*entities.Note, error) {
	log := logger.Log(ctx)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, ErrListingNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrListingNotes, err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, ErrScanningNote, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrScanningNote, err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrIteratingRows, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrIteratingRows, err)
	}

	return notes, nil
}

func (r *NoteRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		logger.Log(ctx).Error(ctx, ErrCountingNotes, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrCountingNotes, err)
	}
	return total, nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &note.Tags, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return &note, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern превращает keyword в шаблон ILIKE для поиска подстроки.
func LikePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}
