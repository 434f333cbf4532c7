package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
)

// GoogleWeb uses the keyless translate_a endpoint used by Google's web
// widgets. The answer is a positional JSON array: element 0 holds translated
// chunks and element 2 the detected source language.
type GoogleWeb struct {
	client  jsonClient
	baseURL string
	log     *slog.Logger
}

var errMalformedResponse = errors.New("malformed response")

func NewGoogleWeb(cfg config.GoogleWebConfig, timeout time.Duration, log *slog.Logger) *GoogleWeb {
	return &GoogleWeb{
		client:  newJSONClient(timeout),
		baseURL: cfg.URL,
		log:     log.With("component", "googleweb"),
	}
}

func (t *GoogleWeb) Name() string { return BackendGoogleWeb }

func (t *GoogleWeb) Translate(ctx context.Context, req Request) (string, error) {
	source := regionalChinese(req.Source)
	if source == "" {
		source = "auto"
	}
	text, _, err := t.call(ctx, req.Text, source, regionalChinese(req.Target))
	if err != nil {
		t.log.ErrorContext(ctx, "Translate request failed", "source", req.Source, "target", req.Target, "error", err)
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", err)
	}
	return text, nil
}

// Detect translates to English with automatic source detection and reports
// the detected source. The endpoint gives no confidence, so it is 1.
func (t *GoogleWeb) Detect(ctx context.Context, text string) ([]language.Detection, error) {
	_, detected, err := t.call(ctx, text, "auto", language.English)
	if err != nil {
		t.log.ErrorContext(ctx, "Detect request failed", "error", err)
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}
	if detected == "" {
		return nil, nil
	}
	return []language.Detection{{Language: detected, Confidence: 1}}, nil
}

func (t *GoogleWeb) call(ctx context.Context, text, source, target string) (string, string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	var raw []json.RawMessage
	if err := t.client.do(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil, &raw); err != nil {
		return "", "", err
	}
	return parseGoogleWeb(raw)
}

// parseGoogleWeb joins the translated chunks and extracts the detected source.
func parseGoogleWeb(raw []json.RawMessage) (string, string, error) {
	if len(raw) == 0 {
		return "", "", errMalformedResponse
	}

	var chunks [][]any
	if err := json.Unmarshal(raw[0], &chunks); err != nil {
		return "", "", fmt.Errorf("%w: %v", errMalformedResponse, err)
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		if s, ok := chunk[0].(string); ok {
			sb.WriteString(s)
		}
	}

	var detected string
	if len(raw) > 2 {
		// Element 2 is null when the source was given explicitly.
		_ = json.Unmarshal(raw[2], &detected)
	}

	return sb.String(), detected, nil
}

func (t *GoogleWeb) Close() error { return nil }
