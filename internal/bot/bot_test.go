package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/transbot/internal/bot/tasks"
	"github.com/edgard/transbot/internal/config"
	"github.com/edgard/transbot/internal/telegram/telegramtest"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLibreTranslate answers /translate by echoing the text with its target.
func fakeLibreTranslate(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch r.URL.Path {
		case "/detect":
			_, _ = io.WriteString(w, `[{"confidence":90,"language":"zh"}]`)
		case "/translate":
			_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "[" + req["target"] + "] " + req["q"]})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(libreURL string) *config.Config {
	return &config.Config{
		Logger:   config.LoggerConfig{Level: "debug"},
		Telegram: config.TelegramConfig{Token: telegramtest.Token},
		Webhook: config.WebhookConfig{
			BaseURL:            "https://transbot.onrender.com",
			Path:               "/webhook",
			DropPendingUpdates: true,
			DeleteOnShutdown:   true,
			MaxConcurrent:      4,
			ProcessTimeout:     5 * time.Second,
			MaxBodyBytes:       1 << 20,
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Translator: config.TranslatorConfig{
			Backend:        "libretranslate",
			Timeout:        5 * time.Second,
			LibreTranslate: config.LibreTranslateConfig{URL: libreURL},
		},
		Detection: config.DetectionConfig{Policy: "api"},
		Messages:  config.DefaultMessages,
		Scheduler: config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
			"webhook_check": {Enabled: true, Schedule: config.DefaultWebhookCheckSchedule},
		}},
	}
}

func TestBotEndToEnd(t *testing.T) {
	t.Parallel()

	api := telegramtest.NewServer()
	t.Cleanup(api.Close)
	lt := fakeLibreTranslate(t)

	b, err := NewBot(context.Background(), testConfig(lt.URL), discard(), WithTelegramOptions(tgbot.WithServerURL(api.URL)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- b.Run(ctx) }()

	select {
	case <-b.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not become ready")
	}

	// Registration happened once, after clearing pending updates.
	require.Len(t, api.Calls("setWebhook"), 1)
	assert.Equal(t, "https://transbot.onrender.com/webhook", api.Calls("setWebhook")[0].Params["url"])
	assert.Equal(t, "true", api.Calls("deleteWebhook")[0].Params["drop_pending_updates"])

	update := `{"update_id":1,"message":{"message_id":9,"date":1700000000,"chat":{"id":42,"type":"private"},"text":"你好"}}`
	resp, err := http.Post("http://"+b.Addr().String()+"/webhook", "application/json", strings.NewReader(update))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	sent := api.Calls("sendMessage")
	require.Len(t, sent, 1)
	assert.Equal(t, "42", sent[0].Params["chat_id"])
	assert.Equal(t, "检测语言：zh\n翻译为：en\n结果：[en] 你好", sent[0].Params["text"])

	status, err := http.Get("http://" + b.Addr().String() + "/test")
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(status.Body).Decode(&payload))
	status.Body.Close()
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "libretranslate", payload["translator"])

	cancel()
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("bot did not stop")
	}

	// delete_on_shutdown removes the registration without dropping updates.
	deletes := api.Calls("deleteWebhook")
	require.Len(t, deletes, 2)
	assert.NotEqual(t, "true", deletes[1].Params["drop_pending_updates"])
}

func TestBotRegistrationFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	api := telegramtest.NewServer()
	t.Cleanup(api.Close)
	api.SetError("setWebhook", "Bad Request: bad webhook")
	lt := fakeLibreTranslate(t)

	b, err := NewBot(context.Background(), testConfig(lt.URL), discard(), WithTelegramOptions(tgbot.WithServerURL(api.URL)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- b.Run(ctx) }()

	select {
	case <-b.Ready():
	case err := <-runErr:
		t.Fatalf("bot stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not become ready")
	}

	resp, err := http.Get("http://" + b.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, api.Calls("setWebhook"), 1)

	cancel()
	require.NoError(t, <-runErr)
}

func TestNewBotRejectsPolicyWithoutDetector(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://localhost")
	cfg.Translator.Backend = "mymemory"
	cfg.Translator.MyMemory = config.MyMemoryConfig{URL: config.DefaultMyMemoryURL}
	cfg.Detection.Policy = "api"

	_, err := NewBot(context.Background(), cfg, discard())
	assert.ErrorContains(t, err, "mymemory")
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			runs.Add(1)
			return nil
		},
		"unused": func(context.Context) error { return nil },
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":     {Enabled: true, Schedule: "* * * * * *"},
		"unused":   {Enabled: false, Schedule: "* * * * * *"},
		"missing":  {Enabled: true, Schedule: "* * * * * *"},
		"bad_cron": {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap["bad_cron"] = taskMap["unused"]

	s, err := NewScheduler(discard(), cfg, taskMap)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))

	assert.ElementsMatch(t, []string{"tick"}, s.Jobs())
	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}
