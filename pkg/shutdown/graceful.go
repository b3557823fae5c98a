// Package shutdown реализует корректное завершение сервиса по SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"notesapi/pkg/logger"
)

// Hook освобождает ресурс при остановке.
type Hook func(ctx context.Context) error

// Константы для сообщений logger.
const (
	LogSignalReceived = "shutdown signal received"
	LogHookFailed     = "shutdown hook failed"
	LogTimeoutExpired = "shutdown timeout expired before all hooks finished"
)

// Wait блокируется до сигнала SIGINT/SIGTERM или отмены ctx, затем выполняет хуки.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	logger.Log(ctx).Info(ctx, LogSignalReceived)

	// ctx родителя может быть уже отменен, хукам нужен собственный срок.
	_ = Run(context.WithoutCancel(ctx), timeout, hooks...)
}

// Run параллельно выполняет хуки в пределах timeout и объединяет их ошибки.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := logger.Log(ctx)

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				log.Error(ctx, LogHookFailed, zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn(ctx, LogTimeoutExpired)
		mu.Lock()
		defer mu.Unlock()
		return errors.Join(append(errs, ctx.Err())...)
	}

	return errors.Join(errs...)
}
