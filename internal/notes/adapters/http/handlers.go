package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapi/internal/notes/domain/entities"
	"notesapi/internal/notes/ports/api"
	"notesapi/pkg/logger"
)

// Тексты ответов об ошибках.
const (
	ErrValidation       = "Validation failed"
	ErrValidationMsg    = "Some fields are missing or invalid"
	ErrInvalidJSON      = "Invalid JSON format"
	ErrInvalidJSONMsg   = "The request body is missing or malformed."
	ErrNoteNotFound     = "Note not found"
	ErrInternal         = "Internal server error"
	ErrStoreUnavailable = "Store unavailable"
)

const (
	defaultPage = "0"
	defaultSize = "10"
)

// Handler обрабатывает HTTP-запросы к заметкам.
type Handler struct {
	notes     api.NoteService
	validator *Validator
}

// NewHandler создает обработчик заметок.
func NewHandler(notes api.NoteService, validator *Validator) *Handler {
	return &Handler{notes: notes, validator: validator}
}

// ListNotes возвращает страницу заметок.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	reqCtx := requestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListNotes"))

	page, size, fieldErrs := parsePage(ctx)
	if len(fieldErrs) == 0 {
		fieldErrs = h.validator.Validate(pageQuery{Page: page, Size: size})
	}
	if len(fieldErrs) > 0 {
		return validationFailed(ctx, fieldErrs)
	}

	result, err := h.notes.ListPage(reqCtx, page, size)
	if err != nil {
		log.Error(reqCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, err)
	}

	return respond(ctx, fiber.StatusOK, newPageResponse(result))
}

// SearchNotes возвращает страницу заметок, содержащих keyword.
func (h *Handler) SearchNotes(ctx fiber.Ctx) error {
	reqCtx := requestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.SearchNotes"))

	keyword := ctx.Query("keyword")
	page, size, fieldErrs := parsePage(ctx)
	if len(fieldErrs) == 0 {
		fieldErrs = h.validator.Validate(searchQuery{Keyword: keyword, Page: page, Size: size})
	}
	if len(fieldErrs) > 0 {
		return validationFailed(ctx, fieldErrs)
	}

	result, err := h.notes.SearchPage(reqCtx, keyword, page, size)
	if err != nil {
		log.Error(reqCtx, "failed to search notes", zap.Error(err))
		return handleError(ctx, err)
	}

	return respond(ctx, fiber.StatusOK, newPageResponse(result))
}

// GetNote возвращает заметку по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	reqCtx := requestContext(ctx)

	note, err := h.notes.FindByID(reqCtx, ctx.Params("id"))
	if err != nil {
		return handleError(ctx, err)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// CreateNote создает заметку.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	reqCtx := requestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.CreateNote"))

	req, ok, err := h.bindNote(ctx)
	if !ok {
		return err
	}

	note, err := h.notes.Create(reqCtx, req.draft())
	if err != nil {
		log.Error(reqCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}

	return respond(ctx, fiber.StatusCreated, note)
}

// UpdateNote заменяет содержимое заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	reqCtx := requestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.UpdateNote"))

	req, ok, err := h.bindNote(ctx)
	if !ok {
		return err
	}

	note, err := h.notes.Update(reqCtx, ctx.Params("id"), req.draft())
	if err != nil {
		log.Error(reqCtx, "failed to update note", zap.Error(err))
		return handleError(ctx, err)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// DeleteNote удаляет заметку.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	reqCtx := requestContext(ctx)

	if err := h.notes.DeleteByID(reqCtx, ctx.Params("id")); err != nil {
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Health проверяет доступность хранилища.
func Health(checker api.HealthChecker) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		reqCtx := requestContext(ctx)
		if err := checker.Ping(reqCtx); err != nil {
			logger.Log(reqCtx).Error(reqCtx, "health check failed", zap.Error(err))
			return respond(ctx, fiber.StatusServiceUnavailable, ErrorResponse{Error: ErrStoreUnavailable})
		}
		return respond(ctx, fiber.StatusOK, fiber.Map{"status": "ok"})
	}
}

// bindNote разбирает и валидирует тело запроса. При ok == false ответ уже отправлен.
func (h *Handler) bindNote(ctx fiber.Ctx) (NoteRequest, bool, error) {
	var req NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		logger.Log(requestContext(ctx)).Debug(requestContext(ctx), "invalid request body", zap.Error(err))
		return req, false, respond(ctx, fiber.StatusBadRequest, ErrorResponse{
			Error:   ErrInvalidJSON,
			Message: ErrInvalidJSONMsg,
		})
	}

	if fieldErrs := h.validator.Validate(req); len(fieldErrs) > 0 {
		return req, false, validationFailed(ctx, fieldErrs)
	}

	return req, true, nil
}

func parsePage(ctx fiber.Ctx) (int, int, []FieldError) {
	var fieldErrs []FieldError

	page, err := strconv.Atoi(ctx.Query("page", defaultPage))
	if err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "page", Message: "must be an integer"})
	}

	size, err := strconv.Atoi(ctx.Query("size", defaultSize))
	if err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "size", Message: "must be an integer"})
	}

	return page, size, fieldErrs
}

func validationFailed(ctx fiber.Ctx, fieldErrs []FieldError) error {
	return respond(ctx, fiber.StatusBadRequest, ErrorResponse{
		Error:       ErrValidation,
		Message:     ErrValidationMsg,
		FieldErrors: fieldErrs,
	})
}

func handleError(ctx fiber.Ctx, err error) error {
	var notFound *entities.NotFoundError
	if errors.As(err, &notFound) {
		return respond(ctx, fiber.StatusNotFound, ErrorResponse{
			Error:   ErrNoteNotFound,
			Message: notFound.Error(),
		})
	}
	return respond(ctx, fiber.StatusInternalServerError, ErrorResponse{Error: ErrInternal})
}

func respond(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
