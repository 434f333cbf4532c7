package tasks

import (
	"context"
	"fmt"
	"time"
)

// newWebhookCheckTask polls getWebhookInfo and reports drift and delivery
// errors through logs and metrics. It never re-registers the webhook.
func newWebhookCheckTask(deps TaskDeps) ScheduledTaskFunc {
	return func(ctx context.Context) error {
		log := deps.Logger.With("task", "webhook_check")

		info, err := deps.Webhook.GetWebhookInfo(ctx)
		if err != nil {
			return fmt.Errorf("failed to get webhook info: %w", err)
		}

		deps.Metrics.SetWebhookInfo(info.PendingUpdateCount, info.LastErrorDate)

		expected := deps.Config.Webhook.URL()
		switch {
		case info.URL == "":
			log.WarnContext(ctx, "No webhook registered with Telegram", "expected_url", expected)
		case expected != "" && info.URL != expected:
			log.WarnContext(ctx, "Registered webhook differs from configuration", "registered_url", info.URL, "expected_url", expected)
		}

		if info.LastErrorMessage != "" {
			log.WarnContext(ctx, "Telegram reports webhook delivery errors",
				"last_error", info.LastErrorMessage,
				"last_error_at", time.Unix(int64(info.LastErrorDate), 0).UTC(),
				"pending_updates", info.PendingUpdateCount)
			return nil
		}

		log.InfoContext(ctx, "Webhook healthy", "url", info.URL, "pending_updates", info.PendingUpdateCount)
		return nil
	}
}
