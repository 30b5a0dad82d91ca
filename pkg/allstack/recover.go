// recover.go provides the Recover helper for standalone panic capture.
// Use it in goroutines or handlers that have no middleware guarding them.

package allstack

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Recover captures a panic as an exception event and returns the
// recovered value, or nil when no panic is in flight. It does not
// re-panic after recording.
//
// It must be deferred directly for recover to take effect:
//
//	func worker(ctx context.Context) {
//	    defer allstack.Recover(ctx, client)
//	    // code that might panic
//	}
func Recover(ctx context.Context, client *Client) any {
	r := recover()
	if r == nil {
		return nil
	}

	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}

	// The goroutine trace text includes the panic site below the runtime
	// frames; keep it verbatim rather than re-collecting frames here.
	client.CaptureException(ctx, err,
		WithRawTrace(string(debug.Stack())),
		WithCategory("panic"),
	)

	return r
}
