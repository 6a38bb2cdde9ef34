package locate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "dev_secret"

var fixedNow = time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)

func newTestHandler(t *testing.T, mutate func(*HandlerConfig)) (http.Handler, *[]Payload) {
	t.Helper()

	var (
		mu       sync.Mutex
		accepted []Payload
	)
	cfg := HandlerConfig{
		Secret: testSecret,
		Now:    func() time.Time { return fixedNow },
		Accept: func(_ context.Context, p Payload) error {
			mu.Lock()
			defer mu.Unlock()
			accepted = append(accepted, p)
			return nil
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewHandler(cfg), &accepted
}

func post(h http.Handler, body, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, Route, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_Accepts(t *testing.T) {
	t.Parallel()

	h, accepted := newTestHandler(t, nil)
	rec := post(h, samplePayload, Sign(testSecret, []byte(samplePayload)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "TX-2025-000001", body["ticket"])
	assert.Equal(t, "2025-06-01T15:04:05Z", body["receivedAt"])

	require.Len(t, *accepted, 1)
	assert.Equal(t, "2025-06-01T15:04:05Z", (*accepted)[0].ReceivedAt)
}

func TestHandler_SignatureIsOverRawBody(t *testing.T) {
	t.Parallel()

	h, accepted := newTestHandler(t, nil)
	// Same JSON value, different bytes.
	spaced := strings.Replace(samplePayload, `,"excavator"`, `, "excavator"`, 1)
	rec := post(h, spaced, Sign(testSecret, []byte(samplePayload)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, *accepted)

	rec = post(h, spaced, Sign(testSecret, []byte(spaced)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Unauthorized(t *testing.T) {
	t.Parallel()

	h, accepted := newTestHandler(t, nil)
	for name, sig := range map[string]string{
		"missing":      "",
		"wrong secret": Sign("nope", []byte(samplePayload)),
		"no prefix":    strings.TrimPrefix(Sign(testSecret, []byte(samplePayload)), "sha256="),
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(h, samplePayload, sig)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, map[string]any{"error": "Invalid signature"}, decodeBody(t, rec))
		})
	}
	assert.Empty(t, *accepted)
}

func TestHandler_SignatureCheckedBeforeSchema(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, nil)
	rec := post(h, `{}`, "sha256=00")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_InvalidPayload(t *testing.T) {
	t.Parallel()

	h, accepted := newTestHandler(t, nil)
	body := `{"ticketNumber":"T","excavator":"E","address":"A","coordinates":{"lat":120,"lng":0}}`
	rec := post(h, body, Sign(testSecret, []byte(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Invalid payload"}, decodeBody(t, rec))
	assert.Empty(t, *accepted)
}

func TestHandler_BodyTooLarge(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, func(c *HandlerConfig) { c.BodyLimit = 64 })
	rec := post(h, samplePayload, Sign(testSecret, []byte(samplePayload)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandler_AcceptFailure(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, func(c *HandlerConfig) {
		c.Accept = func(context.Context, Payload) error { return errors.New("queue full") }
	})
	rec := post(h, samplePayload, Sign(testSecret, []byte(samplePayload)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_RateLimitPerIP(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, func(c *HandlerConfig) { c.RateLimit = 2 })
	sig := Sign(testSecret, []byte(samplePayload))

	assert.Equal(t, http.StatusOK, post(h, samplePayload, sig).Code)
	assert.Equal(t, http.StatusOK, post(h, samplePayload, sig).Code)
	rec := post(h, samplePayload, sig)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodPost, Route, strings.NewReader(samplePayload))
	req.RemoteAddr = "198.51.100.7:5555"
	req.Header.Set(SignatureHeader, sig)
	other := httptest.NewRecorder()
	h.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHandler_SecurityHeaders(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, nil)
	rec := post(h, samplePayload, Sign(testSecret, []byte(samplePayload)))
	for _, kv := range securityHeaders {
		assert.Equal(t, kv[1], rec.Header().Get(kv[0]), kv[0])
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, func(c *HandlerConfig) { c.AllowedOrigins = []string{"https://ops.example.com"} })
	req := httptest.NewRequest(http.MethodOptions, Route, nil)
	req.Header.Set("Origin", "https://ops.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", SignatureHeader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, nil)
	post(h, samplePayload, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decodeBody(t, rec))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `aegis_locate_requests_total{outcome="unauthorized"} 1`)
}

func TestHandler_WrongMethod(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Route, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
