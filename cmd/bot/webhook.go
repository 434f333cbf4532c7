package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/telegram"
)

type webhookEnv struct {
	cfg config.WebhookConfig
	log *slog.Logger
}

func newWebhookCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Inspect or change the webhook registration",
	}

	var serverURL string
	cmd.PersistentFlags().StringVar(&serverURL, "api-url", "", "Telegram Bot API server URL (default api.telegram.org)")

	newClient := func() (*tgbot.Bot, *webhookEnv, error) {
		cfg, log, err := setup(opts)
		if err != nil {
			return nil, nil, err
		}
		botOpts := []tgbot.Option{tgbot.WithSkipGetMe()}
		if serverURL != "" {
			botOpts = append(botOpts, tgbot.WithServerURL(serverURL))
		}
		b, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
		if err != nil {
			return nil, nil, err
		}
		return b, &webhookEnv{cfg: cfg.Webhook, log: log}, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Print Telegram's view of the webhook as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, env, err := newClient()
				if err != nil {
					return err
				}
				info, err := telegram.WebhookInfo(cmd.Context(), b)
				if err != nil {
					env.log.Error("Failed to get webhook info", "error", err)
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			},
		},
		&cobra.Command{
			Use:   "set",
			Short: "Register the configured webhook URL",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, env, err := newClient()
				if err != nil {
					return err
				}
				if err := telegram.RegisterWebhook(cmd.Context(), b, env.cfg, env.log); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "webhook set: %s\n", env.cfg.URL())
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the webhook registration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, env, err := newClient()
				if err != nil {
					return err
				}
				if err := telegram.DeleteWebhook(cmd.Context(), b, env.log); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "webhook deleted")
				return nil
			},
		},
	)
	return cmd
}
