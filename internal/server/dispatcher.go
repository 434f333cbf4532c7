package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/semaphore"

	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/metrics"
)

// UpdateProcessor runs the bot's handlers for one update. *bot.Bot satisfies
// it through ProcessUpdate.
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, update *models.Update)
}

// Dispatcher hands decoded updates to the processor with at most
// max_concurrent running at once. In async mode Dispatch returns immediately
// and Close waits for the background work.
type Dispatcher struct {
	processor UpdateProcessor
	sem       *semaphore.Weighted
	async     bool
	timeout   time.Duration
	metrics   *metrics.Metrics
	log       *slog.Logger

	// baseCtx parents async work and is cancelled when Close gives up.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(p UpdateProcessor, cfg config.WebhookConfig, m *metrics.Metrics, log *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		processor: p,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		async:     cfg.Async,
		timeout:   cfg.ProcessTimeout,
		metrics:   m,
		log:       log.With("component", "dispatcher"),
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// Dispatch processes update. Synchronous dispatch outlives a cancelled
// request so a dropped connection does not abort a half-sent reply.
func (d *Dispatcher) Dispatch(ctx context.Context, update *models.Update) {
	d.mu.Lock()
	if !d.async || d.closed {
		d.mu.Unlock()
		d.run(context.WithoutCancel(ctx), update)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.run(d.baseCtx, update)
	}()
}

func (d *Dispatcher) run(ctx context.Context, update *models.Update) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.log.WarnContext(ctx, "Dropping update, dispatcher is shutting down", "update_id", update.ID, "error", err)
		return
	}
	defer d.sem.Release(1)

	d.metrics.IncInFlight()
	defer d.metrics.DecInFlight()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.metrics.IncUpdate(metrics.ResultPanic)
			d.log.ErrorContext(ctx, "Recovered from panic while processing update",
				"update_id", update.ID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()

	d.processor.ProcessUpdate(ctx, update)
}

// Close stops accepting async work and waits for in-flight updates until ctx
// expires, at which point their contexts are cancelled.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("dispatcher drain interrupted: %w", ctx.Err())
	}
}
