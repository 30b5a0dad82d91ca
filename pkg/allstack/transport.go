// transport.go defines the Transport interface for event destinations.

package allstack

import "context"

// Transport is the destination for delivery-ready events.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Send delivers one event. Called after redaction and validation.
	// Implementations own their retry policy; a returned error means
	// the event was definitively not delivered.
	Send(ctx context.Context, event *Event) error

	// Flush ensures any buffered events are delivered.
	// For synchronous transports, this may be a no-op.
	Flush(ctx context.Context) error

	// Close releases resources held by the transport.
	// After Close is called, Send and Flush should return errors.
	Close() error
}
