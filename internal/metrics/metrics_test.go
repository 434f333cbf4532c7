package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.IncUpdate(ResultAccepted)
	m.IncUpdate(ResultAccepted)
	m.IncUpdate(ResultDecodeError)
	m.IncMessage(OutcomeTranslated)
	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()
	m.SetWebhookInfo(7, 1700000000)
	m.ObserveTranslation("libretranslate", 250*time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.UpdatesReceived.WithLabelValues(ResultAccepted)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.UpdatesReceived.WithLabelValues(ResultDecodeError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesProcessed.WithLabelValues(OutcomeTranslated)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.UpdatesInFlight), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.PendingUpdates), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.TranslationDuration))
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncUpdate(ResultAccepted)
		m.IncMessage(OutcomeFailed)
		m.ObserveTranslation("x", time.Second)
		m.IncInFlight()
		m.DecInFlight()
		m.SetWebhookInfo(1, 1)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.IncUpdate(ResultAccepted)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `transbot_webhook_updates_received_total{result="accepted"} 1`)
}
