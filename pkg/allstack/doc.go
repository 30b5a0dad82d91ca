// Package allstack is the in-process capture client for the AllStack
// collector.
//
// allstack turns Go errors and handled HTTP requests into normalized
// telemetry events, redacts sensitive payload data, and delivers the
// events to the collector API with retries. Capture is strictly
// best-effort: every failure mode inside the client resolves to a false
// return plus a log line, never an error or panic in the host
// application.
//
// # Core Components
//
//   - Event: the canonical delivery record with classification, contexts, and a structured stack trace
//   - Client: the public capture boundary; builds, validates, rate-limits, and delivers events
//   - Sanitizer: recursive redaction of sensitive keys plus scalar type coercion
//   - RateLimiter: shared rolling-window admission gate across all captures in the process
//   - Transport: destination abstraction; the default posts to the collector API over HTTP
//
// # Quick Start
//
//	cfg, err := allstack.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := allstack.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := doWork(); err != nil {
//	    client.CaptureException(ctx, err)
//	}
//
// For panic capture in a goroutine:
//
//	defer allstack.Recover(ctx, client)
//
// # Design Principles
//
//   - Capture never aborts the host: all internal failures are swallowed and logged
//   - Redaction happens during event construction, never at the transport boundary
//   - One shared rate budget per process: exception and request captures drain the same counter
package allstack
