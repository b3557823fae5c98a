package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapi/pkg/logger"
)

// HeaderRequestID - заголовок, в котором передается идентификатор запроса.
const HeaderRequestID = "X-Request-ID"

const localsRequestContext = "requestContext"

// requestContext возвращает контекст запроса, обогащенный middleware.
func requestContext(ctx fiber.Ctx) context.Context {
	if reqCtx, ok := ctx.Locals(localsRequestContext).(context.Context); ok {
		return reqCtx
	}
	return ctx.Context()
}

// NewRequestIDMiddleware берет X-Request-ID из запроса или генерирует новый
// и кладет его в контекст запроса и в заголовок ответа.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		ctx.Set(HeaderRequestID, requestID)
		ctx.Locals(localsRequestContext, logger.NewRequestIDContext(ctx.Context(), requestID))

		return ctx.Next()
	}
}

// NewLoggerMiddleware создает промежуточное ПО для логирования HTTP запросов.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		reqCtx := requestContext(ctx)
		start := time.Now()

		log := logger.Log(reqCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("http_method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)

		log.Debug(reqCtx, "Request started")

		err := ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if err != nil {
			log.Error(reqCtx, "Request failed", append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(reqCtx, "Request completed", fields...)
		return nil
	}
}

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		reqCtx := requestContext(ctx)

		defer func() {
			if r := recover(); r != nil {
				logger.Log(reqCtx).Error(reqCtx, "Server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)
				err = respond(ctx, fiber.StatusInternalServerError, ErrorResponse{Error: ErrInternal})
			}
		}()

		return ctx.Next()
	}
}
