package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mbolis/survey-intake/log"
)

func init() {
	log.SetOutput(io.Discard)
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimit(0.001, 2, "X-Forwarded-For")(ok)

	send := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/survey", nil)
		r.Header.Set("X-Forwarded-For", ip)
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send("203.0.113.1").Code)
	assert.Equal(t, http.StatusNoContent, send("203.0.113.1").Code)

	blocked := send("203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), `"error":"too_many_requests"`)

	// other clients keep their own budget
	assert.Equal(t, http.StatusNoContent, send("203.0.113.2").Code)
}

func TestRateLimit_KeysOnPeerAddress(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimit(0.001, 1, "")(ok)

	send := func(forwarded string) int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/survey", nil)
		r.RemoteAddr = "192.0.2.10:40000"
		r.Header.Set("X-Forwarded-For", forwarded)
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.2"))
}

func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/v1/survey", strings.NewReader("12345678"))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.NoError(t, readErr)

	r = httptest.NewRequest(http.MethodPost, "/v1/survey", strings.NewReader("123456789"))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Error(t, readErr)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	start := time.Now()
	rl := &rateLimiter{
		limiters:  map[string]*ipLimiter{},
		limit:     1,
		burst:     1,
		lastSweep: start,
	}
	rl.get("a", start)
	rl.get("b", start.Add(limiterIdleTTL/2))
	rl.get("b", start.Add(2*limiterIdleTTL))

	assert.NotContains(t, rl.limiters, "a")
	assert.Contains(t, rl.limiters, "b")
}
