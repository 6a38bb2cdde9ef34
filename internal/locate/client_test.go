package locate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-locate/aegis-seed/internal/resilience"
)

func testPayload() Payload {
	return Payload{
		TicketNumber: "TX-2025-000001",
		Excavator:    "ABC Construction",
		Address:      "123 Main St, San Antonio, TX",
		Coordinates:  NewCoordinates(29.4241, -98.4936),
	}
}

func testClient(url string) *Client {
	c := NewClient(url, testSecret)
	c.Backoff = resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond, Factor: 2}
	return c
}

func TestClient_SendAgainstHandler(t *testing.T) {
	t.Parallel()

	h, accepted := newTestHandler(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := testClient(srv.URL+"/").Send(context.Background(), testPayload())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "TX-2025-000001", resp.Ticket)
	assert.Equal(t, "2025-06-01T15:04:05Z", resp.ReceivedAt)
	require.Len(t, *accepted, 1)
}

func TestClient_WrongSecretIsFinal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	h, _ := newTestHandler(t, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h.ServeHTTP(w, r)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.Secret = "wrong"
	_, err := c.Send(context.Background(), testPayload())
	require.Error(t, err)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	assert.Equal(t, "Invalid signature", serr.Message)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.True(t, r.Header.Get(SignatureHeader) != "")
		writeJSON(w, http.StatusOK, Response{Success: true, Ticket: "TX-2025-000001"})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Send(context.Background(), testPayload())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_GivesUpAfterAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusTooManyRequests, "Too many requests")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Send(context.Background(), testPayload())
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_NetworkErrorIsRetried(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := testClient(url).Send(context.Background(), testPayload())
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestClient_BreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.Breaker = resilience.NewBreaker(2, time.Hour)

	_, err := c.Send(context.Background(), testPayload())
	require.Error(t, err)
	assert.ErrorIs(t, err, resilience.ErrOpen)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, resilience.Open, c.Breaker.State())
}
