package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/language"
	"github.com/edgard/transbot/internal/metrics"
	"github.com/edgard/transbot/internal/translator"
)

type fakeTranslator struct {
	mu       sync.Mutex
	requests []translator.Request
	replies  map[string]string
	err      error
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) Translate(_ context.Context, req translator.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[req.Text], nil
}

func (f *fakeTranslator) Close() error { return nil }

func (f *fakeTranslator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeDetector struct {
	detections []language.Detection
	err        error
}

func (f fakeDetector) Detect(context.Context, string) ([]language.Detection, error) {
	return f.detections, f.err
}

func newProcessor(policy language.Policy, backend translator.Translator, m *metrics.Metrics) *Processor {
	return New(policy, backend, config.DefaultMessages, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessHeuristic(t *testing.T) {
	t.Parallel()

	backend := &fakeTranslator{replies: map[string]string{
		"你好":    "Hello",
		"hello": "你好",
		"42!":   "42！",
	}}
	p := newProcessor(language.NewHeuristicPolicy(), backend, nil)
	ctx := context.Background()

	reply, ok := p.Process(ctx, "  你好\n")
	require.True(t, ok)
	assert.Equal(t, "检测语言：zh\n翻译为：en\n结果：Hello", reply)

	reply, ok = p.Process(ctx, "hello")
	require.True(t, ok)
	assert.Contains(t, reply, "检测语言：en")
	assert.Contains(t, reply, "翻译为：zh")
	assert.Contains(t, reply, "结果：你好")

	reply, ok = p.Process(ctx, "42!")
	require.True(t, ok)
	assert.Contains(t, reply, "检测语言：unknown")
	assert.Contains(t, reply, "翻译为：zh")

	require.Len(t, backend.requests, 3)
	assert.Equal(t, translator.Request{Text: "你好", Source: "zh", Target: "en"}, backend.requests[0])
	assert.Equal(t, translator.Request{Text: "42!", Source: "en", Target: "zh"}, backend.requests[2])
}

func TestProcessEmpty(t *testing.T) {
	t.Parallel()

	backend := &fakeTranslator{}
	m := metrics.New()
	p := newProcessor(language.NewHeuristicPolicy(), backend, m)

	for _, text := range []string{"", "   ", "\n\t "} {
		reply, ok := p.Process(context.Background(), text)
		assert.False(t, ok)
		assert.Empty(t, reply)
	}
	assert.Zero(t, backend.calls())
	assert.InDelta(t, 3, testutil.ToFloat64(m.MessagesProcessed.WithLabelValues(metrics.OutcomeSkipped)), 0)
}

func TestProcessAPIPolicy(t *testing.T) {
	t.Parallel()

	backend := &fakeTranslator{replies: map[string]string{"你好": "Hello"}}
	detector := fakeDetector{detections: []language.Detection{
		{Language: "zh-CN", Confidence: 95},
		{Language: "ja", Confidence: 4},
	}}
	p := newProcessor(language.NewAPIPolicy(detector), backend, nil)

	reply, ok := p.Process(context.Background(), "你好")
	require.True(t, ok)
	assert.Equal(t, "检测语言：zh\n翻译为：en\n结果：Hello", reply)
}

func TestProcessTranslationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("503 Service Unavailable")
	backend := &fakeTranslator{err: apperrors.NewTranslationError("libretranslate", "translate failed", cause)}
	m := metrics.New()
	p := newProcessor(language.NewHeuristicPolicy(), backend, m)

	reply, ok := p.Process(context.Background(), "hello")
	require.True(t, ok)
	assert.NotEmpty(t, reply)
	assert.Contains(t, reply, "翻译出错：")
	assert.Contains(t, reply, "503 Service Unavailable")
	assert.Contains(t, reply, "稍后重试")
	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesProcessed.WithLabelValues(metrics.OutcomeFailed)), 0)
}

func TestProcessFailureLogFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantBackend string
	}{
		{"backend error", apperrors.NewTranslationError("libretranslate", "translate failed", errors.New("timeout")), apperrors.CodeTranslation, "libretranslate"},
		{"plain error", errors.New("socket closed"), apperrors.CodeUnknown, "fake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))
			p := New(language.NewHeuristicPolicy(), &fakeTranslator{err: tt.err}, config.DefaultMessages, nil, log)

			_, ok := p.Process(context.Background(), "hello")
			require.True(t, ok)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "Translation failed", entry["msg"])
			assert.Equal(t, tt.wantCode, entry["code"])
			assert.Equal(t, tt.wantBackend, entry["backend"])
			assert.Equal(t, "heuristic", entry["policy"])
		})
	}
}

func TestProcessDetectionError(t *testing.T) {
	t.Parallel()

	backend := &fakeTranslator{}
	p := newProcessor(language.NewAPIPolicy(fakeDetector{err: errors.New("detector down")}), backend, nil)

	reply, ok := p.Process(context.Background(), "hello")
	require.True(t, ok)
	assert.Contains(t, reply, "翻译出错：language detection failed: detector down")
	assert.Zero(t, backend.calls())
}

func TestProcessNoDetection(t *testing.T) {
	t.Parallel()

	p := newProcessor(language.NewAPIPolicy(fakeDetector{}), &fakeTranslator{}, nil)

	reply, ok := p.Process(context.Background(), "hello")
	require.True(t, ok)
	assert.Contains(t, reply, "翻译出错：")
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	backend := &fakeTranslator{replies: map[string]string{"hello": "你好"}}
	p := newProcessor(language.NewHeuristicPolicy(), backend, m)

	res, err := p.Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "en", res.Source)
	assert.Equal(t, "zh", res.Target)
	assert.Equal(t, "你好", res.Text)
	assert.Equal(t, 1, testutil.CollectAndCount(m.TranslationDuration))
}
