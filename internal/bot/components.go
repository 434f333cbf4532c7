package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/language"
	"github.com/edgard/transbot/internal/metrics"
	"github.com/edgard/transbot/internal/processor"
	"github.com/edgard/transbot/internal/translator"
)

// NewProcessor builds the translation backend and detection policy named in
// cfg and the processor around them. The caller owns the returned backend and
// must Close it.
func NewProcessor(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*processor.Processor, translator.Translator, error) {
	backend, err := translator.New(ctx, cfg.Translator, logger)
	if err != nil {
		return nil, nil, err
	}

	policy, err := language.NewPolicy(cfg.Detection.Policy, translator.DetectorOf(backend))
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("failed to create detection policy with backend %s: %w", backend.Name(), err)
	}

	logger.Info("Message processor ready", "backend", backend.Name(), "detection", policy.Name())
	return processor.New(policy, backend, cfg.Messages, m, logger), backend, nil
}
