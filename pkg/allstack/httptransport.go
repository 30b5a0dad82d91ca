// httptransport.go delivers events to the collector API over HTTP.

package allstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

// Collector endpoint paths, appended to the configured base URL.
const (
	exceptionPath = "/api/client/exception"
	requestPath   = "/api/client/http-request-transactions"
)

// Delivery timing. Each attempt gets its own connect and overall timeout;
// attempts are separated by a fixed delay.
const (
	connectTimeout = 5 * time.Second
	attemptTimeout = 5 * time.Second
	retryDelay     = time.Second
	maxAttempts    = 3
)

// HTTPTransport posts events to the collector API. Any transport error or
// non-2xx response is retried with a fixed delay; 4xx responses are not
// treated differently from 5xx. The underlying client is connection-pooled
// and safe for concurrent use.
type HTTPTransport struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
	delay   time.Duration // between attempts; fixed, no backoff growth
}

// NewHTTPTransport creates a transport for the collector at cfg.BaseURL.
// A nil httpClient gets a pooled default with per-attempt timeouts.
func NewHTTPTransport(cfg Config, logger *slog.Logger, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: attemptTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		logger:  logger,
		delay:   retryDelay,
	}
}

// Send delivers event to the endpoint matching its kind. It returns nil on
// the first 2xx response and an error once all attempts are exhausted.
// Every attempt reuses the same X-Event-Id so the collector can
// deduplicate retried deliveries.
func (t *HTTPTransport) Send(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	url := t.baseURL + endpointPath(event)
	eventID := uuid.NewString()

	operation := func() (any, error) {
		return nil, t.post(ctx, url, eventID, body)
	}
	notify := func(err error, _ time.Duration) {
		t.logger.Error("event delivery attempt failed", "url", url, "error", err)
	}

	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(t.delay)),
		backoff.WithMaxTries(maxAttempts),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return fmt.Errorf("deliver event: %w", err)
	}
	return nil
}

// post issues one POST attempt.
func (t *HTTPTransport) post(ctx context.Context, url, eventID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		// A request that cannot be constructed will not heal on retry.
		return backoff.Permanent(err)
	}
	req.Header.Set("x-api-key", t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Event-Id", eventID)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// endpointPath selects the collector sub-path by event kind.
func endpointPath(event *Event) string {
	if event.ErrorType == ErrorTypeHTTPRequest {
		return requestPath
	}
	return exceptionPath
}

// Flush is a no-op: delivery is synchronous.
func (t *HTTPTransport) Flush(ctx context.Context) error {
	return nil
}

// Close releases idle connections held by the pool.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
