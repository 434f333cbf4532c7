package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/transbot/internal/config"
)

// MessageProcessor produces the reply for one text message; ok is false when
// no reply should be sent.
type MessageProcessor interface {
	Process(ctx context.Context, text string) (reply string, ok bool)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Processor MessageProcessor
}
