// Package noop provides a no-operation transport that discards all
// events. Useful for tests and for disabling capture entirely.
package noop

import (
	"context"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

// transport discards all events.
type transport struct{}

// New creates a transport that discards all events.
// All methods return nil and perform no operations.
func New() allstack.Transport {
	return &transport{}
}

// Send discards the event and returns nil.
func (t *transport) Send(ctx context.Context, event *allstack.Event) error {
	return nil
}

// Flush is a no-op and returns nil.
func (t *transport) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op and returns nil.
func (t *transport) Close() error {
	return nil
}
