// options.go configures Client construction and individual captures.

package allstack

import (
	"log/slog"
	"net/http"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	logger     *slog.Logger
	transport  Transport
	sanitizer  *Sanitizer
	limiter    *RateLimiter
	httpClient *http.Client
}

// WithLogger routes the client's diagnostics to logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTransport replaces the default HTTP delivery transport.
func WithTransport(transport Transport) ClientOption {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithSanitizer replaces the default redaction setup, e.g. to register
// extra sensitive key fragments.
func WithSanitizer(sanitizer *Sanitizer) ClientOption {
	return func(c *clientConfig) {
		c.sanitizer = sanitizer
	}
}

// WithRateLimiter shares an admission gate across clients.
func WithRateLimiter(limiter *RateLimiter) ClientOption {
	return func(c *clientConfig) {
		c.limiter = limiter
	}
}

// WithHTTPClient sets the underlying HTTP client used by the default
// transport. Ignored when WithTransport is also given.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = httpClient
	}
}

// CaptureOption attaches per-call data to a single capture.
type CaptureOption func(*captureConfig)

type captureConfig struct {
	transactionID string
	category      string
	rootCause     string
	fingerprint   string
	tags          []string
	rawTrace      string
	extra         map[string]any
}

// WithTransactionID correlates the event with a caller-side transaction.
func WithTransactionID(id string) CaptureOption {
	return func(c *captureConfig) {
		c.transactionID = id
	}
}

// WithCategory labels the event with a caller-chosen category.
func WithCategory(category string) CaptureOption {
	return func(c *captureConfig) {
		c.category = category
	}
}

// WithRootCause records an upstream cause description on the event.
func WithRootCause(cause string) CaptureOption {
	return func(c *captureConfig) {
		c.rootCause = cause
	}
}

// WithFingerprint sets an explicit grouping hash, overriding any
// automatically computed one.
func WithFingerprint(fingerprint string) CaptureOption {
	return func(c *captureConfig) {
		c.fingerprint = fingerprint
	}
}

// WithTags appends classification tags to the event.
func WithTags(tags ...string) CaptureOption {
	return func(c *captureConfig) {
		c.tags = append(c.tags, tags...)
	}
}

// WithRawTrace supplies preformatted stack-trace text to parse instead of
// collecting the caller's frames.
func WithRawTrace(trace string) CaptureOption {
	return func(c *captureConfig) {
		c.rawTrace = trace
	}
}

// WithExtra merges additional key/values into the event's additionalData.
// Values pass through redaction like any other payload data.
func WithExtra(extra map[string]any) CaptureOption {
	return func(c *captureConfig) {
		if c.extra == nil {
			c.extra = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			c.extra[k] = v
		}
	}
}
