// Package stderr provides a transport that prints events to stderr in
// human-readable form. Useful for development and debugging.
package stderr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

// Option configures the stderr transport.
type Option func(*config)

type config struct {
	verbose bool
}

// WithVerbose enables full event details including stack frames.
func WithVerbose() Option {
	return func(c *config) {
		c.verbose = true
	}
}

// transport prints events to stderr.
type transport struct {
	verbose bool
}

// New creates a transport that writes to stderr.
func New(opts ...Option) allstack.Transport {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &transport{
		verbose: cfg.verbose,
	}
}

// Send formats and prints the event to stderr.
func (t *transport) Send(ctx context.Context, event *allstack.Event) error {
	// Main line
	// Format: [ALLSTACK] <timestamp> <LEVEL> <errorType> (severity: <severity>) [component]
	var parts []string
	parts = append(parts, fmt.Sprintf("[ALLSTACK] %s %s %s", event.Timestamp, event.ErrorLevel, event.ErrorType))
	parts = append(parts, fmt.Sprintf("(severity: %s)", event.ErrorSeverity))
	if event.Component != "" {
		parts = append(parts, event.Component)
	}
	fmt.Fprintln(os.Stderr, strings.Join(parts, " "))

	if event.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "        Message: %s\n", event.ErrorMessage)
	}
	if event.URL != "" {
		fmt.Fprintf(os.Stderr, "        URL: %s\n", event.URL)
	}
	if event.Fingerprint != "" {
		fmt.Fprintf(os.Stderr, "        Fingerprint: %s\n", event.Fingerprint)
	}

	// Stack frames (only in verbose mode)
	if t.verbose && len(event.StackTrace) > 0 {
		fmt.Fprintf(os.Stderr, "        Stack trace:\n")
		for _, frame := range event.StackTrace {
			if frame.File != "" || frame.Function != "" {
				fmt.Fprintf(os.Stderr, "          %s(%d): %s\n", frame.File, frame.Line, frame.Function)
				continue
			}
			fmt.Fprintf(os.Stderr, "          %s\n", frame.Raw)
		}
	}

	return nil
}

// Flush is a no-op for the stderr transport.
func (t *transport) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op for the stderr transport.
func (t *transport) Close() error {
	return nil
}
