// Package async provides a transport wrapper with a bounded queue for
// callers that cannot afford synchronous delivery. Events are queued and
// delivered in the background; oldest events are dropped when full.
package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

// Option configures the async transport.
type Option func(*config)

type config struct {
	queueSize int
	onDropped func(count int)
}

// WithQueueSize sets the maximum number of queued events (default: 1000).
func WithQueueSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithOnDropped sets a callback invoked when events are dropped due to
// queue overflow.
func WithOnDropped(fn func(count int)) Option {
	return func(c *config) {
		c.onDropped = fn
	}
}

// transport wraps an inner transport with a bounded queue.
type transport struct {
	inner     allstack.Transport
	queue     chan *allstack.Event
	done      chan struct{}
	closeOnce sync.Once
	closeMu   sync.Mutex
	closed    bool
	wg        sync.WaitGroup
	onDropped func(count int)
}

// New wraps a transport with a bounded queue for asynchronous delivery.
// Send returns immediately; events are delivered in the background. When
// the queue is full, the oldest event is dropped to make room.
func New(inner allstack.Transport, opts ...Option) allstack.Transport {
	cfg := &config{
		queueSize: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &transport{
		inner:     inner,
		queue:     make(chan *allstack.Event, cfg.queueSize),
		done:      make(chan struct{}),
		onDropped: cfg.onDropped,
	}

	t.wg.Add(1)
	go t.deliverLoop()

	return t
}

// deliverLoop drains the queue into the inner transport.
func (t *transport) deliverLoop() {
	defer t.wg.Done()
	for {
		select {
		case event, ok := <-t.queue:
			if !ok {
				return
			}
			// Fire and forget; the inner transport logs its own failures.
			_ = t.inner.Send(context.Background(), event)
		case <-t.done:
			// Drain remaining events
			for {
				select {
				case event, ok := <-t.queue:
					if !ok {
						return
					}
					_ = t.inner.Send(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Send enqueues an event for background delivery and returns immediately.
// If the queue is full, the oldest event is dropped.
func (t *transport) Send(ctx context.Context, event *allstack.Event) error {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return errors.New("async transport is closed")
	}
	t.closeMu.Unlock()

	select {
	case t.queue <- event:
		return nil
	default:
		t.dropOldestAndEnqueue(event)
		return nil
	}
}

// dropOldestAndEnqueue drops the oldest event and enqueues the new one.
func (t *transport) dropOldestAndEnqueue(event *allstack.Event) {
	// Try to read (drop) one event from the queue
	select {
	case <-t.queue:
		if t.onDropped != nil {
			t.onDropped(1)
		}
	default:
		// Queue was emptied by the deliver loop in the meantime
	}

	// Now try to enqueue again
	select {
	case t.queue <- event:
	default:
		// Still full, drop the new event instead
		if t.onDropped != nil {
			t.onDropped(1)
		}
	}
}

// Flush blocks until all queued events are delivered.
func (t *transport) Flush(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if len(t.queue) == 0 {
				// Give the in-flight event a moment to finish
				time.Sleep(10 * time.Millisecond)
				return t.inner.Flush(ctx)
			}
		}
	}
}

// Close stops background delivery, drains the queue, and closes the
// inner transport.
func (t *transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeMu.Lock()
		t.closed = true
		t.closeMu.Unlock()

		close(t.done)
		t.wg.Wait()
		close(t.queue)
	})

	return t.inner.Close()
}
