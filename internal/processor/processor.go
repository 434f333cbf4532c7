// Package processor turns one inbound text message into one reply: it picks
// the translation direction, calls the configured backend and formats the
// result or the failure.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
	"github.com/edgard/transbot/internal/metrics"
	"github.com/edgard/transbot/internal/translator"
)

// Result is one completed translation.
type Result struct {
	language.Decision
	Text string
}

type Processor struct {
	policy   language.Policy
	backend  translator.Translator
	messages config.MessagesConfig
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New wires a processor. m may be nil.
func New(policy language.Policy, backend translator.Translator, messages config.MessagesConfig, m *metrics.Metrics, log *slog.Logger) *Processor {
	return &Processor{
		policy:   policy,
		backend:  backend,
		messages: messages,
		metrics:  m,
		log:      log.With("component", "processor"),
	}
}

// Process returns the reply for text and whether one should be sent at all.
// Empty or whitespace-only text yields no reply; anything else yields exactly
// one, either the formatted translation or the formatted error.
func (p *Processor) Process(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		p.metrics.IncMessage(metrics.OutcomeSkipped)
		return "", false
	}

	res, err := p.Translate(ctx, text)
	if err != nil {
		backend := apperrors.Backend(err)
		if backend == "" {
			backend = p.backend.Name()
		}
		p.log.WarnContext(ctx, "Translation failed",
			"policy", p.policy.Name(),
			"backend", backend,
			"code", apperrors.Code(err),
			"error", err)
		p.metrics.IncMessage(metrics.OutcomeFailed)
		return fmt.Sprintf(p.messages.Error, err.Error()), true
	}

	p.metrics.IncMessage(metrics.OutcomeTranslated)
	return fmt.Sprintf(p.messages.Result, res.Display, res.Target, res.Text), true
}

// Translate decides the direction for text and translates it. text must
// already be trimmed and non-empty.
func (p *Processor) Translate(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	defer func() { p.metrics.ObserveTranslation(p.backend.Name(), time.Since(start)) }()

	decision, err := p.policy.Decide(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("language detection failed: %w", err)
	}

	translated, err := p.backend.Translate(ctx, translator.Request{
		Text:   text,
		Source: decision.Source,
		Target: decision.Target,
	})
	if err != nil {
		return Result{}, err
	}

	p.log.DebugContext(ctx, "Message translated",
		"source", decision.Source,
		"target", decision.Target,
		"duration", time.Since(start))

	return Result{Decision: decision, Text: translated}, nil
}
