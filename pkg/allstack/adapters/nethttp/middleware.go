// Package nethttp instruments net/http servers with AllStack capture.
// The middleware records every handled request as a transaction event and
// captures panics as exception events before re-panicking.
package nethttp

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	maxBodyBytes int64
	filter       func(*http.Request) bool
}

// WithMaxBodySize caps how many request body bytes are read for capture
// (default: 64 KiB). The handler still receives the full body.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithFilter skips capture for requests the filter rejects. Use it to
// exclude health checks and other noise.
func WithFilter(filter func(*http.Request) bool) Option {
	return func(c *config) {
		c.filter = filter
	}
}

// Middleware wraps handlers with request and panic capture for client.
//
//	mux := http.NewServeMux()
//	mux.Handle("/", appHandler)
//	handler := nethttp.Middleware(client)(mux)
//	http.ListenAndServe(addr, handler)
func Middleware(client *allstack.Client, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.filter != nil && !cfg.filter(r) {
				next.ServeHTTP(w, r)
				return
			}

			// Snapshot before the handler runs: it may consume the body.
			data := extractRequest(r, cfg.maxBodyBytes)
			start := time.Now()

			defer func() {
				if rec := recover(); rec != nil {
					capturePanic(r.Context(), client, rec)
					panic(rec)
				}
				client.CaptureRequest(r.Context(), data, time.Since(start))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// capturePanic records a handler panic as an exception event. The panic
// is re-raised by the caller so the server's own recovery still runs.
func capturePanic(ctx context.Context, client *allstack.Client, recovered any) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	}
	client.CaptureException(ctx, err,
		allstack.WithRawTrace(string(debug.Stack())),
		allstack.WithCategory("panic"),
	)
}
