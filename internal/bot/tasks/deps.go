// Package tasks implements the bot's scheduled tasks and their registry.
package tasks

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/metrics"
)

// WebhookInspector reports Telegram's view of the webhook. *bot.Bot
// satisfies it.
type WebhookInspector interface {
	GetWebhookInfo(ctx context.Context) (*models.WebhookInfo, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Webhook WebhookInspector
	Metrics *metrics.Metrics
}
