package language

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"zh":      "zh",
		"zh-CN":   "zh",
		"zh-cn":   "zh",
		"zh_CN":   "zh",
		"zh-Hans": "zh",
		"zh-TW":   "zh",
		"en":      "en",
		"EN":      "en",
		"en-US":   "en",
		" fr ":    "fr",
		"":        "",
		"unknown": "unknown",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, Normalize(in))
		})
	}
}

func TestTargetFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, English, TargetFor("zh"))
	assert.Equal(t, English, TargetFor("zh-CN"))
	assert.Equal(t, Chinese, TargetFor("en"))
	assert.Equal(t, Chinese, TargetFor("ja"))
	assert.Equal(t, Chinese, TargetFor(""))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"chinese", "你好", Chinese},
		{"mixed chinese wins", "hello 世界", Chinese},
		{"range start", "一", Chinese},
		{"range end", "鿿", Chinese},
		{"english", "hello", English},
		{"english with digits", "route 66", English},
		{"digits only", "12345", Unknown},
		{"punctuation only", "?!...", Unknown},
		{"cyrillic is not ascii", "привет", Unknown},
		{"hiragana outside range", "こんにちは", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestHeuristicPolicy(t *testing.T) {
	t.Parallel()

	p := NewHeuristicPolicy()
	ctx := context.Background()

	d, err := p.Decide(ctx, "你好")
	require.NoError(t, err)
	assert.Equal(t, Decision{Source: "zh", Target: "en", Display: "zh"}, d)

	d, err = p.Decide(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, Decision{Source: "en", Target: "zh", Display: "en"}, d)

	d, err = p.Decide(ctx, "2024!")
	require.NoError(t, err)
	assert.Equal(t, Decision{Source: "en", Target: "zh", Display: "unknown"}, d)
}

type stubDetector struct {
	detections []Detection
	err        error
}

func (s stubDetector) Detect(context.Context, string) ([]Detection, error) {
	return s.detections, s.err
}

func TestAPIPolicy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("takes highest confidence and normalises", func(t *testing.T) {
		t.Parallel()
		p := NewAPIPolicy(stubDetector{detections: []Detection{
			{Language: "en", Confidence: 12},
			{Language: "zh-CN", Confidence: 90},
		}})
		d, err := p.Decide(ctx, "你好")
		require.NoError(t, err)
		assert.Equal(t, Decision{Source: "zh", Target: "en", Display: "zh"}, d)
	})

	t.Run("first wins on ties", func(t *testing.T) {
		t.Parallel()
		p := NewAPIPolicy(stubDetector{detections: []Detection{
			{Language: "fr", Confidence: 50},
			{Language: "zh", Confidence: 50},
		}})
		d, err := p.Decide(ctx, "bonjour")
		require.NoError(t, err)
		assert.Equal(t, "fr", d.Source)
		assert.Equal(t, "zh", d.Target)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		p := NewAPIPolicy(stubDetector{})
		_, err := p.Decide(ctx, "hello")
		assert.ErrorIs(t, err, ErrNoDetection)
	})

	t.Run("detector error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("rate limited")
		p := NewAPIPolicy(stubDetector{err: boom})
		_, err := p.Decide(ctx, "hello")
		assert.ErrorIs(t, err, boom)
	})
}

func TestNewPolicy(t *testing.T) {
	t.Parallel()

	_, err := NewPolicy(PolicyAPI, nil)
	assert.Error(t, err)

	p, err := NewPolicy(PolicyAPI, stubDetector{})
	require.NoError(t, err)
	assert.Equal(t, PolicyAPI, p.Name())

	p, err = NewPolicy(PolicyHeuristic, nil)
	require.NoError(t, err)
	assert.Equal(t, PolicyHeuristic, p.Name())

	_, err = NewPolicy("magic", nil)
	assert.Error(t, err)
}

func TestLinguaPolicy(t *testing.T) {
	t.Parallel()

	p := NewLinguaPolicy()
	ctx := context.Background()

	d, err := p.Decide(ctx, "今天天气很好，我们去公园散步吧")
	require.NoError(t, err)
	assert.Equal(t, "zh", d.Source)
	assert.Equal(t, "en", d.Target)

	d, err = p.Decide(ctx, "The weather is lovely today, let's go for a walk")
	require.NoError(t, err)
	assert.Equal(t, "en", d.Source)
	assert.Equal(t, "zh", d.Target)

	d, err = p.Decide(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, "unknown", d.Display)
}
