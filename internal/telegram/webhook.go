package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
)

// allowedUpdates limits deliveries to the update types the bot handles.
var allowedUpdates = []string{"message"}

// RegisterWebhook clears any previous webhook, dropping queued updates when
// configured, and registers cfg.URL(). It makes one attempt; callers decide
// whether a failure is fatal.
func RegisterWebhook(ctx context.Context, b *bot.Bot, cfg config.WebhookConfig, logger *slog.Logger) error {
	log := logger.With("component", "webhook")

	url := cfg.URL()
	if url == "" {
		return apperrors.NewRegistrationError("webhook base URL is not configured", nil)
	}

	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: cfg.DropPendingUpdates}); err != nil {
		log.ErrorContext(ctx, "Failed to delete previous webhook", "error", err)
		return apperrors.NewRegistrationError("failed to delete previous webhook", err)
	}

	ok, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:                url,
		SecretToken:        cfg.SecretToken,
		DropPendingUpdates: cfg.DropPendingUpdates,
		AllowedUpdates:     allowedUpdates,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to set webhook", "url", url, "error", err)
		return apperrors.NewRegistrationError("failed to set webhook", err)
	}
	if !ok {
		return apperrors.NewRegistrationError("telegram rejected webhook "+url, nil)
	}

	log.InfoContext(ctx, "Webhook set successfully", "url", url, "drop_pending_updates", cfg.DropPendingUpdates)
	return nil
}

// DeleteWebhook removes the registration without dropping queued updates.
func DeleteWebhook(ctx context.Context, b *bot.Bot, logger *slog.Logger) error {
	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		return apperrors.NewRegistrationError("failed to delete webhook", err)
	}
	logger.InfoContext(ctx, "Webhook deleted", "component", "webhook")
	return nil
}

// WebhookInfo returns Telegram's view of the current registration.
func WebhookInfo(ctx context.Context, b *bot.Bot) (*models.WebhookInfo, error) {
	info, err := b.GetWebhookInfo(ctx)
	if err != nil {
		return nil, apperrors.NewRegistrationError("failed to get webhook info", err)
	}
	return info, nil
}
