package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/odds-board/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{"data":[{"id":5,"matches":{"match":{"localteam":{"name":"Foo"},"awayteam":{"name":"Bar"}}}}]}`

func testConfig(source string) config.Config {
	return config.Config{
		AppEnv:                config.EnvDev,
		ServiceName:           "odds-board-api-test",
		HTTPAddr:              ":0",
		DocumentSource:        source,
		DocumentFetchTimeout:  time.Second,
		DocumentMaxBytes:      1 << 20,
		DocumentWorkers:       2,
		SearchSuggestionLimit: 20,
		SearchHintLimit:       3,
		SessionIdleTimeout:    time.Minute,
		SessionSweepInterval:  time.Hour,
		CountdownInterval:     time.Second,
		CacheEnabled:          true,
	}
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func waitForDocument(t *testing.T, handler http.Handler, status string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(get(handler, "/healthz").Body.String(), `"document":"`+status+`"`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApp_LoadsDocumentAndServes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o600))

	application, err := New(testConfig(path), nil)
	require.NoError(t, err)
	application.Start(context.Background())

	handler := application.Server().Handler
	waitForDocument(t, handler, "ready")

	rec := get(handler, "/v1/matches?q=foo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"5 - Foo vs Bar"`)

	metrics := get(handler, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `odds_board_document_matches 1`)
	assert.Contains(t, metrics.Body.String(), `odds_board_pivot_cache_entries`)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, application.Shutdown(ctx))
}

func TestApp_MissingDocumentFailsTerminally(t *testing.T) {
	application, err := New(testConfig(filepath.Join(t.TempDir(), "missing.json")), nil)
	require.NoError(t, err)
	application.Start(context.Background())
	t.Cleanup(func() { _ = application.Shutdown(context.Background()) })

	handler := application.Server().Handler
	waitForDocument(t, handler, "failed")

	rec := get(handler, "/v1/matches?q=foo")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "documentLoadFailed")
}

func TestApp_RequiresAddr(t *testing.T) {
	cfg := testConfig("./public/data.json")
	cfg.HTTPAddr = ""
	_, err := New(cfg, nil)
	require.Error(t, err)
}
