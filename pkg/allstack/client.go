// client.go provides the capture client and its public boundary.

package allstack

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Client captures exceptions and HTTP transactions and delivers them to
// the collector. All capture methods are best-effort: every failure mode
// resolves to a false return plus a log line, and no error or panic ever
// crosses back into the host application. Clients are safe for concurrent
// use.
type Client struct {
	cfg       Config
	logger    *slog.Logger
	sanitizer *Sanitizer
	limiter   *RateLimiter
	transport Transport
}

// NewClient builds a capture client from cfg. Construction is the only
// place the client fails fast: missing required configuration returns an
// error here so misconfiguration surfaces at startup, not at capture time.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var cc clientConfig
	for _, opt := range opts {
		opt(&cc)
	}

	logger := cc.logger
	if logger == nil {
		logger = slog.Default()
	}
	sanitizer := cc.sanitizer
	if sanitizer == nil {
		sanitizer = NewSanitizer()
	}
	limiter := cc.limiter
	if limiter == nil {
		limiter = NewRateLimiter()
	}
	transport := cc.transport
	if transport == nil {
		transport = NewHTTPTransport(cfg, logger, cc.httpClient)
	}

	return &Client{
		cfg:       cfg,
		logger:    logger,
		sanitizer: sanitizer,
		limiter:   limiter,
		transport: transport,
	}, nil
}

// CaptureException records err as an exception event and reports whether
// it was delivered. A nil err is not an event and returns false.
func (c *Client) CaptureException(ctx context.Context, err error, opts ...CaptureOption) (captured bool) {
	defer c.guard("exception capture", &captured)

	if err == nil {
		return false
	}
	if !c.allow() {
		return false
	}
	return c.deliver(ctx, c.buildExceptionEvent(err, applyCaptureConfig(opts)))
}

// CaptureRequest records one handled HTTP request as a transaction event
// and reports whether it was delivered. responseTime is the observed
// request duration.
func (c *Client) CaptureRequest(ctx context.Context, data RequestData, responseTime time.Duration, opts ...CaptureOption) (captured bool) {
	defer c.guard("request capture", &captured)

	if !c.allow() {
		return false
	}
	ms := float64(responseTime) / float64(time.Millisecond)
	return c.deliver(ctx, c.buildRequestEvent(data, ms, applyCaptureConfig(opts)))
}

// Flush ensures any buffered events are delivered.
func (c *Client) Flush(ctx context.Context) error {
	return c.transport.Flush(ctx)
}

// Close releases resources held by the transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// guard converts a panic anywhere inside a capture call into a logged
// false result. The host application must never observe a fault in
// telemetry capture as a fault in itself.
func (c *Client) guard(operation string, captured *bool) {
	if r := recover(); r != nil {
		c.logger.Error("capture failed unexpectedly", "operation", operation, "panic", r)
		*captured = false
	}
}

// allow consumes one slot from the shared rate budget. The slot is spent
// whether or not the capture ultimately delivers.
func (c *Client) allow() bool {
	if c.limiter.Allow(rateLimitKey, c.cfg.MaxPerMinute) {
		return true
	}
	c.logger.Warn("capture throttled, dropping event", "key", rateLimitKey, "maxPerMinute", c.cfg.MaxPerMinute)
	return false
}

// deliver validates the built event and hands it to the transport.
func (c *Client) deliver(ctx context.Context, event *Event) bool {
	if err := Validate(event); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.logger.Warn("event failed validation, dropping", "field", verr.Field)
		} else {
			c.logger.Warn("event failed validation, dropping", "error", err)
		}
		return false
	}
	if err := c.transport.Send(ctx, event); err != nil {
		c.logger.Error("event delivery failed", "error", err)
		return false
	}
	return true
}

func applyCaptureConfig(opts []CaptureOption) captureConfig {
	var cfg captureConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
