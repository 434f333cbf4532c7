// Package config manages application configuration from environment variables,
// an optional config file and default values.
package config

import (
	"errors"
	"time"
)

var ErrValidation = errors.New("validation error")

// Config defines the application configuration. Values can be set in
// config.yaml, via TRANSBOT_* environment variables (e.g. TRANSBOT_TRANSLATOR_BACKEND)
// or via the platform variables BOT_TOKEN, RENDER_EXTERNAL_URL and PORT.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Server     ServerConfig     `mapstructure:"server"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Messages   MessagesConfig   `mapstructure:"messages"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// WebhookConfig controls registration with Telegram and how received updates
// are dispatched.
type WebhookConfig struct {
	// BaseURL is the public URL of this process. It is not validated; a bad
	// value only surfaces as a failed registration.
	BaseURL            string        `mapstructure:"base_url"`
	Path               string        `mapstructure:"path"                 validate:"required,startswith=/"`
	SecretToken        string        `mapstructure:"secret_token"`
	DropPendingUpdates bool          `mapstructure:"drop_pending_updates"`
	DeleteOnShutdown   bool          `mapstructure:"delete_on_shutdown"`
	Async              bool          `mapstructure:"async"`
	MaxConcurrent      int64         `mapstructure:"max_concurrent"       validate:"min=1,max=1024"`
	ProcessTimeout     time.Duration `mapstructure:"process_timeout"      validate:"min=1s,max=10m"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes"       validate:"min=1024"`
}

// URL returns the full callback URL registered with Telegram.
func (w WebhookConfig) URL() string {
	if w.BaseURL == "" {
		return ""
	}
	base := w.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + w.Path
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"             validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s,max=5m"`
}

// TranslatorConfig selects the translation backend and carries the settings
// of every backend; only the selected one is read.
type TranslatorConfig struct {
	Backend        string               `mapstructure:"backend" validate:"required,oneof=libretranslate mymemory google googleweb gemini openai"`
	Timeout        time.Duration        `mapstructure:"timeout" validate:"min=1s,max=5m"`
	LibreTranslate LibreTranslateConfig `mapstructure:"libretranslate"`
	MyMemory       MyMemoryConfig       `mapstructure:"mymemory"`
	Google         GoogleConfig         `mapstructure:"google"`
	GoogleWeb      GoogleWebConfig      `mapstructure:"googleweb"`
	Gemini         GeminiConfig         `mapstructure:"gemini"`
	OpenAI         OpenAIConfig         `mapstructure:"openai"`
}

type LibreTranslateConfig struct {
	URL    string `mapstructure:"url"     validate:"required,url"`
	APIKey string `mapstructure:"api_key"`
}

type MyMemoryConfig struct {
	URL   string `mapstructure:"url"   validate:"required,url"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	APIKey          string `mapstructure:"api_key"`
	// Endpoint overrides the Cloud Translation base URL, e.g. for a proxy.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

type GoogleWebConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string  `mapstructure:"model"       validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string  `mapstructure:"model"       validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

type DetectionConfig struct {
	Policy string `mapstructure:"policy" validate:"required,oneof=api heuristic lingua"`
}

// MessagesConfig holds every user-facing string. Result takes source,
// target and translated text; Error takes the error text.
type MessagesConfig struct {
	Result string `mapstructure:"result" validate:"required"`
	Error  string `mapstructure:"error"  validate:"required"`
	Start  string `mapstructure:"start"  validate:"required"`
	Help   string `mapstructure:"help"   validate:"required"`
	Home   string `mapstructure:"home"   validate:"required"`
}

type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
