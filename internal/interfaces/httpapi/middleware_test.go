package httpapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/odds-board/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, recordedRequest{method: method, route: route, status: status})
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 2)
	h := newAPIHarness(t, memory.NewLoadedMatchRepository(apiFixture()), RouterOptions{Limiter: limiter})

	for i := 0; i < 2; i++ {
		rec, _ := h.do(t, http.MethodGet, "/v1/matches?q=real", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := h.do(t, http.MethodGet, "/v1/matches?q=real", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rateLimitExceeded", errorReason(t, body))
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	rec, _ = h.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health checks bypass the limiter")
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))
	limiter := NewLimiter(5, 0)
	require.NotNil(t, limiter)
	assert.Equal(t, 1, limiter.Burst())
}

func TestRequestLoggingReportsRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	h := newAPIHarness(t, memory.NewLoadedMatchRepository(apiFixture()), RouterOptions{Observer: observer})

	h.do(t, http.MethodGet, "/v1/matches/42/odds", nil)
	h.do(t, http.MethodGet, "/v1/matches/404/odds", nil)
	h.do(t, http.MethodGet, "/nowhere", nil)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	require.Len(t, observer.requests, 3)
	assert.Equal(t, recordedRequest{method: "GET", route: "GET /v1/matches/{matchID}/odds", status: 200}, observer.requests[0])
	assert.Equal(t, 404, observer.requests[1].status)
	assert.Equal(t, "GET /v1/matches/{matchID}/odds", observer.requests[1].route)
	assert.Equal(t, recordedRequest{method: "GET", route: "/", status: 404}, observer.requests[2])
}

func TestUnmatchedRoutesAnswerWithJSONEnvelope(t *testing.T) {
	h := newAPIHarness(t, memory.NewLoadedMatchRepository(apiFixture()), RouterOptions{})

	for _, tc := range []struct {
		method string
		target string
	}{
		{method: http.MethodGet, target: "/nowhere"},
		{method: http.MethodGet, target: "/v1/sessions/abc/unknown"},
		{method: http.MethodPatch, target: "/v1/matches"},
	} {
		rec, body := h.do(t, tc.method, tc.target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.target)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), tc.target)
		assert.Equal(t, "2.0", body["apiVersion"], tc.target)
		assert.Equal(t, "notFound", errorReason(t, body), tc.target)
	}
}

func TestRecoverPanicReturnsInternalError(t *testing.T) {
	handler := recoverPanic(nil, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"internalError"`)
}

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.2:1234", want: "203.0.113.7"},
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "198.51.100.1", "X-Real-IP": "192.0.2.9"}, remote: "10.0.0.2:1234", want: "198.51.100.1"},
		{name: "socket fallback", remote: "192.0.2.44:5678", want: "192.0.2.44"},
		{name: "garbage", headers: map[string]string{"X-Forwarded-For": "not-an-ip"}, remote: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, resolveClientIP(req))
		})
	}
}
