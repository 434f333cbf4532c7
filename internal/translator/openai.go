package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
)

// OpenAI translates through any OpenAI-compatible chat completion API.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *slog.Logger
}

func NewOpenAI(cfg config.OpenAIConfig, timeout time.Duration, log *slog.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	logger := log.With("component", "openai_translator")
	logger.Info("OpenAI translator initialized successfully", "model", cfg.Model, "base_url", clientCfg.BaseURL)
	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		log:         logger,
	}, nil
}

func (t *OpenAI) Name() string { return BackendOpenAI }

func (t *OpenAI) Translate(ctx context.Context, req Request) (string, error) {
	text, err := t.complete(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: t.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translationPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
	})
	if err != nil {
		t.log.ErrorContext(ctx, "OpenAI translation failed", "error", err)
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", err)
	}
	return text, nil
}

func (t *OpenAI) Detect(ctx context.Context, text string) ([]language.Detection, error) {
	raw, err := t.complete(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: detectInstruction + ` Reply with JSON only: {"language": "..", "confidence": 0}.`},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		t.log.ErrorContext(ctx, "OpenAI detection failed", "error", err)
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}

	detection, err := parseLLMDetection(raw)
	if err != nil {
		return nil, apperrors.NewTranslationError(t.Name(), "detect failed", err)
	}
	return []language.Detection{detection}, nil
}

func (t *OpenAI) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

func (t *OpenAI) Close() error { return nil }
