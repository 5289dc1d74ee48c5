package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/odds-board/internal/infrastructure/document"
	"github.com/riskibarqy/odds-board/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ usecase.Metrics   = (*Metrics)(nil)
	_ document.Observer = (*Metrics)(nil)
)

func TestMetrics_DocumentLoadSwitchesStatus(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentStatus.WithLabelValues("loading")))

	m.ObserveDocumentLoad("ready", 42, 120*time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.DocumentStatus.WithLabelValues("loading")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentStatus.WithLabelValues("ready")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DocumentStatus.WithLabelValues("failed")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.DocumentMatches))
}

func TestMetrics_DomainEvents(t *testing.T) {
	m := NewMetrics()

	m.SearchPerformed(3, time.Millisecond)
	m.SearchPerformed(0, time.Millisecond)
	m.SelectionRecorded(usecase.SelectionOutcomeSelected)
	m.SelectionRecorded(usecase.SelectionOutcomeInvalid)
	m.SelectionRecorded(usecase.SelectionOutcomeInvalid)
	m.SectionToggled(true)
	m.SectionToggled(false)
	m.PivotCacheLookup(true)
	m.PivotCacheLookup(false)
	m.PivotCacheLookup(false)
	m.SessionsActive(5)
	m.CountdownSubscribers(2)
	m.CountdownSubscribers(-1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelectionsTotal.WithLabelValues("selected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SelectionsTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToggleTotal.WithLabelValues("expanded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToggleTotal.WithLabelValues("collapsed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PivotCacheTotal.WithLabelValues("miss")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CountdownStreams))
}

func TestMetrics_TrackPivotCache(t *testing.T) {
	m := NewMetrics()
	entries := 0
	m.TrackPivotCache(func() int { return entries })
	m.TrackPivotCache(nil)

	entries = 4
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "odds_board_pivot_cache_entries 4")
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTP("GET", "/v1/search", 200, 5*time.Millisecond)
	m.ObserveHTTP("GET", "/v1/matches/{matchID}", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `odds_board_http_requests_total{method="GET",route="/v1/search",status="2xx"} 1`), text)
	assert.True(t, strings.Contains(text, `status="4xx"`))
	assert.True(t, strings.Contains(text, "odds_board_document_status"))
}
