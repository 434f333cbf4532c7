package translator

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	translate "cloud.google.com/go/translate"
	xlanguage "golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
)

// Google uses the Cloud Translation v2 API with a service account or API key.
type Google struct {
	client  *translate.Client
	timeout time.Duration
	log     *slog.Logger
}

func NewGoogle(ctx context.Context, cfg config.GoogleConfig, timeout time.Duration, log *slog.Logger) (*Google, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger := log.With("component", "google_translate")
	logger.Info("Google Cloud translator initialized successfully")
	return &Google{client: client, timeout: timeout, log: logger}, nil
}

func (t *Google) Name() string { return BackendGoogle }

func (t *Google) Translate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	target, err := xlanguage.Parse(regionalChinese(req.Target))
	if err != nil {
		return "", apperrors.NewTranslationError(t.Name(), "invalid target language", err)
	}

	opts := &translate.Options{Format: translate.Text}
	if req.Source != "" {
		if source, err := xlanguage.Parse(regionalChinese(req.Source)); err == nil {
			opts.Source = source
		}
	}

	translations, err := t.client.Translate(ctx, []string{req.Text}, target, opts)
	if err != nil {
		t.log.ErrorContext(ctx, "Translate request failed", "source", req.Source, "target", req.Target, "error", err)
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", err)
	}
	if len(translations) == 0 {
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", errors.New("no translation returned"))
	}

	return html.UnescapeString(translations[0].Text), nil
}

func (t *Google) Detect(ctx context.Context, text string) ([]language.Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	results, err := t.client.DetectLanguage(ctx, []string{text})
	if err != nil {
		t.log.ErrorContext(ctx, "Detect request failed", "error", err)
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	detections := make([]language.Detection, 0, len(results[0]))
	for _, d := range results[0] {
		detections = append(detections, language.Detection{Language: d.Language.String(), Confidence: d.Confidence})
	}
	return detections, nil
}

func (t *Google) Close() error {
	return t.client.Close()
}
