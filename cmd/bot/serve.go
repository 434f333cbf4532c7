package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/edgard/transbot/internal/bot"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Register the webhook and serve updates (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}

	app, err := bot.NewBot(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create bot", "error", err)
		return err
	}

	log.Info("Starting bot...", "webhook_url", cfg.Webhook.URL(), "translator", cfg.Translator.Backend, "detection", cfg.Detection.Policy)
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}
