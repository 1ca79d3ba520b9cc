package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/survey-intake/log"
)

func init() {
	log.SetOutput(io.Discard)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/survey", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", ClientIP(r, "X-Forwarded-For"))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9, 10.0.0.1", ClientIP(r, "X-Forwarded-For"))
	assert.Equal(t, "192.0.2.7", ClientIP(r, ""), "header lookup disabled")

	r = httptest.NewRequest(http.MethodPost, "/v1/survey", nil)
	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", ClientIP(r, "X-Forwarded-For"))

	r.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", ClientIP(r, "X-Forwarded-For"))

	r.RemoteAddr = ""
	assert.Equal(t, "", ClientIP(r, "X-Forwarded-For"))
}

func TestLogError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/survey", nil)
	LogError(w, r, http.StatusBadRequest, log.DebugLevel, "survey.parse_body", "invalid_json", "bad body")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: "invalid_json", Detail: "bad body"}, body)
}

func TestLogInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/survey", nil)
	LogInternalError(w, r, "survey.append", "storage_error", errors.New("disk full at /var/data"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
	assert.Contains(t, w.Body.String(), `"error":"storage_error"`)
}
