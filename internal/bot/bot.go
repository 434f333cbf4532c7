// Package bot wires the translation bot together and manages its lifecycle:
// the HTTP receiver, webhook registration, the scheduler and shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/transbot/internal/bot/handlers"
	"github.com/edgard/transbot/internal/bot/tasks"
	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/logger"
	"github.com/edgard/transbot/internal/metrics"
	"github.com/edgard/transbot/internal/server"
	"github.com/edgard/transbot/internal/telegram"
	"github.com/edgard/transbot/internal/translator"
)

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger     *slog.Logger
	cfg        *config.Config
	tgBot      *tgbot.Bot
	backend    translator.Translator
	dispatcher *server.Dispatcher
	httpServer *http.Server
	scheduler  *Scheduler

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// Option customises NewBot.
type Option func(*options)

type options struct {
	telegram []tgbot.Option
}

// WithTelegramOptions passes extra options to the go-telegram client, e.g. a
// different server URL.
func WithTelegramOptions(opts ...tgbot.Option) Option {
	return func(o *options) {
		o.telegram = append(o.telegram, opts...)
	}
}

// NewBot creates every component from cfg. Nothing touches the network until
// Run.
func NewBot(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*Bot, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := metrics.New()

	proc, backend, err := NewProcessor(ctx, cfg, m, log)
	if err != nil {
		return nil, err
	}

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Processor: proc,
	}

	botOpts := append([]tgbot.Option{
		tgbot.WithSkipGetMe(),
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(hDeps)),
	}, o.telegram...)
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to register Telegram handlers: %w", err)
	}

	tDeps := tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		Webhook: tg,
		Metrics: m,
	}
	sched, err := NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	dispatcher := server.NewDispatcher(tg, cfg.Webhook, m, log)
	router := server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Dispatcher: dispatcher,
		Metrics:    m,
		Logger:     log,
		Translator: backend.Name(),
		Detection:  cfg.Detection.Policy,
	})

	return &Bot{
		logger:     log.With("component", "bot_orchestrator"),
		cfg:        cfg,
		tgBot:      tg,
		backend:    backend,
		dispatcher: dispatcher,
		httpServer: server.NewHTTPServer(cfg.Server, router),
		scheduler:  sched,
		ready:      make(chan struct{}),
	}, nil
}

// Ready is closed once the listener is bound and webhook registration has
// been attempted.
func (b *Bot) Ready() <-chan struct{} {
	return b.ready
}

// Addr returns the bound listen address, or nil before Run binds it.
func (b *Bot) Addr() net.Addr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addr
}

// Run binds the listener, registers the webhook once, serves until ctx is
// cancelled and then shuts every component down in order. A failed
// registration is logged and does not stop the bot.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	ln, err := net.Listen("tcp", b.httpServer.Addr)
	if err != nil {
		_ = b.backend.Close()
		return fmt.Errorf("failed to listen on %s: %w", b.httpServer.Addr, err)
	}
	b.mu.Lock()
	b.addr = ln.Addr()
	b.mu.Unlock()
	b.logger.Info("HTTP server listening", "addr", ln.Addr().String(), "webhook_path", b.cfg.Webhook.Path)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := b.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	b.startup(gCtx)
	close(b.ready)

	if err := b.scheduler.Start(gCtx); err != nil {
		b.logger.Error("Failed to start scheduler", "error", err)
	}

	g.Go(func() error {
		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping components...")
		return b.shutdown()
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// startup identifies the bot and registers the webhook. Both are best effort.
func (b *Bot) startup(ctx context.Context) {
	if me, err := b.tgBot.GetMe(ctx); err != nil {
		b.logger.ErrorContext(ctx, "Failed to get bot info", "error", err)
	} else {
		b.logger.InfoContext(ctx, "Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)
	}

	if err := telegram.RegisterWebhook(ctx, b.tgBot, b.cfg.Webhook, b.logger); err != nil {
		b.logger.ErrorContext(ctx, "Webhook registration failed, continuing without it", "error", err)
	}
}

// shutdown stops accepting deliveries, drains in-flight updates, optionally
// deletes the webhook, stops the scheduler and closes the backend.
func (b *Bot) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error

	if err := b.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if err := b.dispatcher.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	if b.cfg.Webhook.DeleteOnShutdown {
		if err := telegram.DeleteWebhook(ctx, b.tgBot, b.logger); err != nil {
			b.logger.Error("Failed to delete webhook on shutdown", "error", err)
		}
	}

	if err := b.scheduler.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler shutdown: %w", err))
	}
	if err := b.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("translator close: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		b.logger.Error("Errors during shutdown", "error", err)
		return err
	}

	b.logger.Info("All components stopped", "timeout", b.cfg.Server.ShutdownTimeout.String())
	return nil
}
