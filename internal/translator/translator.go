// Package translator provides the translation backends the bot can use and a
// factory that selects one from configuration.
package translator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/language"
)

// Backend names accepted in configuration.
const (
	BackendLibreTranslate = "libretranslate"
	BackendMyMemory       = "mymemory"
	BackendGoogle         = "google"
	BackendGoogleWeb      = "googleweb"
	BackendGemini         = "gemini"
	BackendOpenAI         = "openai"
)

// Request is a single translation. Source and Target are canonical codes as
// returned by language.Normalize; backends map them to their own codes.
type Request struct {
	Text   string
	Source string
	Target string
}

// Translator turns text from one language into another. Backends that can
// also identify a language implement language.Detector.
type Translator interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
	Close() error
}

// New creates the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.TranslatorConfig, log *slog.Logger) (Translator, error) {
	log.Info("Initializing translator", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendLibreTranslate:
		return NewLibreTranslate(cfg.LibreTranslate, cfg.Timeout, log), nil
	case BackendMyMemory:
		return NewMyMemory(cfg.MyMemory, cfg.Timeout, log), nil
	case BackendGoogleWeb:
		return NewGoogleWeb(cfg.GoogleWeb, cfg.Timeout, log), nil
	case BackendGoogle:
		t, err := NewGoogle(ctx, cfg.Google, cfg.Timeout, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google Cloud translator: %w", err)
		}
		return t, nil
	case BackendGemini:
		t, err := NewGemini(ctx, cfg.Gemini, cfg.Timeout, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini translator: %w", err)
		}
		return t, nil
	case BackendOpenAI:
		t, err := NewOpenAI(cfg.OpenAI, cfg.Timeout, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI translator: %w", err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown translation backend specified: %s", cfg.Backend)
	}
}

// DetectorOf returns t as a language.Detector, or nil when the backend has no
// detection support.
func DetectorOf(t Translator) language.Detector {
	if d, ok := t.(language.Detector); ok {
		return d
	}
	return nil
}
