package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
)

const (
	translateInstruction = "You are a translation engine. Translate the user's message from %s to %s. " +
		"Reply with the translation only, without quotes, notes or explanations. Preserve line breaks."
	detectInstruction = "Identify the language of the user's message. Answer with its ISO 639-1 code " +
		"and your confidence between 0 and 100."
)

// Gemini translates with a Gemini model and detects languages through a JSON
// schema response.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *slog.Logger
}

var detectionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"language":   {Type: genai.TypeString, Description: "ISO 639-1 code of the message language, e.g. 'en' or 'zh'."},
		"confidence": {Type: genai.TypeNumber, Description: "Confidence between 0 and 100."},
	},
	Required: []string{"language", "confidence"},
}

type llmDetection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

func NewGemini(ctx context.Context, cfg config.GeminiConfig, timeout time.Duration, log *slog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_translator")
	logger.Info("Gemini translator initialized successfully", "model", cfg.Model)
	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		log:         logger,
	}, nil
}

func (t *Gemini) Name() string { return BackendGemini }

func (t *Gemini) Translate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	temperature := t.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(translationPrompt(req), genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(req.Text), cfg)
	if err != nil {
		t.log.ErrorContext(ctx, "Gemini translation failed", "error", err)
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", errors.New("empty response"))
	}
	return text, nil
}

func (t *Gemini) Detect(ctx context.Context, text string) ([]language.Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var zero float32
	cfg := &genai.GenerateContentConfig{
		Temperature:       &zero,
		SystemInstruction: genai.NewContentFromText(detectInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    detectionSchema,
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(text), cfg)
	if err != nil {
		t.log.ErrorContext(ctx, "Gemini detection failed", "error", err)
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}

	detection, err := parseLLMDetection(resp.Text())
	if err != nil {
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}
	return []language.Detection{detection}, nil
}

func (t *Gemini) Close() error { return nil }

// translationPrompt is shared by the LLM backends.
func translationPrompt(req Request) string {
	source := "the detected language"
	if req.Source != "" {
		source = languageName(req.Source)
	}
	return fmt.Sprintf(translateInstruction, source, languageName(req.Target))
}

// parseLLMDetection decodes a {"language","confidence"} object, tolerating a
// fenced code block around it.
func parseLLMDetection(raw string) (language.Detection, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var d llmDetection
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &d); err != nil {
		return language.Detection{}, fmt.Errorf("failed to decode detection: %w", err)
	}
	if d.Language == "" {
		return language.Detection{}, errors.New("detection has no language")
	}
	return language.Detection{Language: d.Language, Confidence: d.Confidence}, nil
}
