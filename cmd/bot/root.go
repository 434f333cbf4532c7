package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/logger"
)

var version = "dev"

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "transbot",
		Short: "Telegram bot translating between Chinese and English",
		Long: `A Telegram bot receiving updates over a webhook. Chinese messages are
translated to English and everything else to Chinese.

Configuration is read from an optional YAML file, TRANSBOT_* environment
variables and the platform variables BOT_TOKEN, RENDER_EXTERNAL_URL and PORT.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default ./config.yaml if present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newWebhookCmd(opts),
		newTranslateCmd(opts),
	)
	return cmd
}

// setup loads the configuration and installs the configured logger. Failures
// are logged with the default logger before being returned.
func setup(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", opts.configPath, "error", err)
		return nil, nil, err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)
	return cfg, log, nil
}
