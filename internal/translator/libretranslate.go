package translator

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
)

// LibreTranslate talks to a LibreTranslate instance. It supports detection.
type LibreTranslate struct {
	client  jsonClient
	baseURL string
	apiKey  string
	log     *slog.Logger
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type libreDetectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type libreDetection struct {
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

func NewLibreTranslate(cfg config.LibreTranslateConfig, timeout time.Duration, log *slog.Logger) *LibreTranslate {
	return &LibreTranslate{
		client:  newJSONClient(timeout),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		log:     log.With("component", "libretranslate"),
	}
}

func (t *LibreTranslate) Name() string { return BackendLibreTranslate }

func (t *LibreTranslate) Translate(ctx context.Context, req Request) (string, error) {
	var resp libreTranslateResponse
	err := t.client.do(ctx, http.MethodPost, t.baseURL+"/translate", libreTranslateRequest{
		Q:      req.Text,
		Source: req.Source,
		Target: req.Target,
		Format: "text",
		APIKey: t.apiKey,
	}, &resp)
	if err != nil {
		t.log.ErrorContext(ctx, "Translate request failed", "source", req.Source, "target", req.Target, "error", err)
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", err)
	}
	return resp.TranslatedText, nil
}

// Detect returns candidates in the order the server sent them.
func (t *LibreTranslate) Detect(ctx context.Context, text string) ([]language.Detection, error) {
	var resp []libreDetection
	err := t.client.do(ctx, http.MethodPost, t.baseURL+"/detect", libreDetectRequest{Q: text, APIKey: t.apiKey}, &resp)
	if err != nil {
		t.log.ErrorContext(ctx, "Detect request failed", "error", err)
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}

	detections := make([]language.Detection, 0, len(resp))
	for _, d := range resp {
		detections = append(detections, language.Detection{Language: d.Language, Confidence: d.Confidence})
	}
	return detections, nil
}

func (t *LibreTranslate) Close() error { return nil }
