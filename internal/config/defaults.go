package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultWebhookPath           = "/webhook"
	DefaultWebhookDropPending    = true
	DefaultWebhookMaxConcurrent  = 16
	DefaultWebhookProcessTimeout = time.Minute
	DefaultWebhookMaxBodyBytes   = 1 << 20

	DefaultServerPort            = 8000
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 90 * time.Second // covers a synchronous translation round trip
	DefaultServerShutdownTimeout = 15 * time.Second

	DefaultTranslatorBackend = "libretranslate"
	DefaultTranslatorTimeout = 20 * time.Second
	DefaultLibreTranslateURL = "https://libretranslate.de"
	DefaultMyMemoryURL       = "https://api.mymemory.translated.net/get"
	DefaultGoogleWebURL      = "https://translate.googleapis.com/translate_a/single"
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultOpenAIModel       = "gpt-4o-mini"

	DefaultDetectionPolicy = "api"

	DefaultWebhookCheckSchedule = "0 */5 * * * *"
)

// Default user-facing messages
var DefaultMessages = MessagesConfig{
	Result: "检测语言：%s\n翻译为：%s\n结果：%s",
	Error:  "翻译出错：%s\n（公共服务器可能繁忙，稍后重试）",
	Start:  "👋 发送任意文字，我会在中文和英文之间自动翻译。\nSend me any text and I will translate between Chinese and English.",
	Help:   "中文消息会被翻译成英文，其他语言会被翻译成中文。\nChinese is translated to English, everything else to Chinese.",
	Home:   "机器人已启动！访问 /test",
}

var defaults = map[string]any{
	"logger.level": DefaultLogLevel,
	"logger.json":  DefaultLogJSON,

	"telegram.token": "",

	"webhook.base_url":             "",
	"webhook.path":                 DefaultWebhookPath,
	"webhook.secret_token":         "",
	"webhook.drop_pending_updates": DefaultWebhookDropPending,
	"webhook.delete_on_shutdown":   false,
	"webhook.async":                false,
	"webhook.max_concurrent":       DefaultWebhookMaxConcurrent,
	"webhook.process_timeout":      DefaultWebhookProcessTimeout,
	"webhook.max_body_bytes":       DefaultWebhookMaxBodyBytes,

	"server.host":             "",
	"server.port":             DefaultServerPort,
	"server.read_timeout":     DefaultServerReadTimeout,
	"server.write_timeout":    DefaultServerWriteTimeout,
	"server.shutdown_timeout": DefaultServerShutdownTimeout,

	"translator.backend":                DefaultTranslatorBackend,
	"translator.timeout":                DefaultTranslatorTimeout,
	"translator.libretranslate.url":     DefaultLibreTranslateURL,
	"translator.libretranslate.api_key": "",
	"translator.mymemory.url":           DefaultMyMemoryURL,
	"translator.mymemory.email":         "",
	"translator.google.credentials_file": "",
	"translator.google.api_key":          "",
	"translator.google.endpoint":         "",
	"translator.googleweb.url":           DefaultGoogleWebURL,
	"translator.gemini.api_key":          "",
	"translator.gemini.base_url":         "",
	"translator.gemini.model":            DefaultGeminiModel,
	"translator.gemini.temperature":      0.2,
	"translator.openai.api_key":          "",
	"translator.openai.base_url":         "",
	"translator.openai.model":            DefaultOpenAIModel,
	"translator.openai.temperature":      0.2,

	"detection.policy": DefaultDetectionPolicy,

	"messages.result": DefaultMessages.Result,
	"messages.error":  DefaultMessages.Error,
	"messages.start":  DefaultMessages.Start,
	"messages.help":   DefaultMessages.Help,
	"messages.home":   DefaultMessages.Home,

	"scheduler.tasks": map[string]any{
		"webhook_check": map[string]any{
			"enabled":  true,
			"schedule": DefaultWebhookCheckSchedule,
		},
	},
}
