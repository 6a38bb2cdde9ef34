package locate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/resilience"
)

// StatusError is a non-2xx reply from the ingest endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("locate: status %d", e.StatusCode)
	}
	return fmt.Sprintf("locate: status %d: %s", e.StatusCode, e.Message)
}

// Client posts signed locate requests.
type Client struct {
	BaseURL string
	Secret  string
	HTTP    *http.Client
	Backoff resilience.Backoff
	// Breaker is optional. When set, it gates every attempt.
	Breaker *resilience.Breaker
}

// NewClient returns a client with a 10s HTTP timeout and the default backoff.
func NewClient(baseURL, secret string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  secret,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Backoff: resilience.DefaultBackoff(),
	}
}

// Send signs p and posts it. Transient failures (network, 408, 429, 5xx) are retried.
// Any other non-2xx reply is returned at once as a *StatusError.
func (c *Client) Send(ctx context.Context, p Payload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, eris.Wrap(err, "locate: marshal payload")
	}
	sig := Sign(c.Secret, body)

	var resp *Response
	attempt := func(ctx context.Context) error {
		r, err := c.post(ctx, body, sig)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	if c.Breaker != nil {
		inner := attempt
		attempt = func(ctx context.Context) error { return c.Breaker.Do(ctx, inner) }
	}

	if err := resilience.Retry(ctx, c.Backoff, "locate.send", attempt); err != nil {
		return nil, eris.Wrapf(err, "locate: send %s", p.TicketNumber)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, body []byte, sig string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+Route, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "locate: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, sig)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, resilience.Transient(err, 0)
	}
	defer res.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, resilience.Transient(eris.Wrap(err, "locate: read response"), res.StatusCode)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		serr := &StatusError{StatusCode: res.StatusCode, Message: e.Error}
		if resilience.IsTransientStatus(res.StatusCode) {
			return nil, resilience.Transient(serr, res.StatusCode)
		}
		zap.L().Debug("locate: request rejected", zap.Int("status", res.StatusCode), zap.String("error", e.Error))
		return nil, serr
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, eris.Wrap(err, "locate: decode response")
	}
	return &out, nil
}
