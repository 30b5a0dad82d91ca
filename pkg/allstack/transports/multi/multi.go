// Package multi provides a transport that fans out to multiple
// transports. All destinations receive all events; errors are aggregated.
package multi

import (
	"context"
	"errors"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

// transport fans out to multiple transports.
type transport struct {
	transports []allstack.Transport
}

// New creates a transport that delivers to every given destination.
// All destinations receive all events. Errors are aggregated via
// errors.Join.
func New(transports ...allstack.Transport) allstack.Transport {
	return &transport{
		transports: transports,
	}
}

// Send delivers the event to all destinations, collecting any errors.
// All destinations are attempted even if some fail.
func (t *transport) Send(ctx context.Context, event *allstack.Event) error {
	var errs []error
	for _, dest := range t.transports {
		if err := dest.Send(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush calls Flush on all destinations, collecting any errors.
func (t *transport) Flush(ctx context.Context) error {
	var errs []error
	for _, dest := range t.transports {
		if err := dest.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on all destinations, collecting any errors.
func (t *transport) Close() error {
	var errs []error
	for _, dest := range t.transports {
		if err := dest.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
