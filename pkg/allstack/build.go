// build.go constructs delivery-ready events from exceptions and requests.

package allstack

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// placeholderMessage replaces an exception's message when it has none.
const placeholderMessage = "No message provided"

// placeholderUserAgent marks events captured outside any request context.
const placeholderUserAgent = "unknown"

// rawTracer is implemented by errors that already carry preformatted
// stack-trace text, e.g. errors bridged in from another runtime.
type rawTracer interface {
	StackTrace() string
}

// RequestData describes one handled HTTP request for CaptureRequest.
// Adapters fill it from their framework's request type.
type RequestData struct {
	Method    string
	URL       string
	Host      string
	Port      int
	Protocol  string
	IP        string
	UserAgent string

	// Headers and Query preserve multi-valued entries as received.
	Headers map[string][]string
	Query   map[string][]string

	// Body is the decoded request body, typically a map for JSON bodies.
	// It is redacted recursively during event construction.
	Body any
}

// buildExceptionEvent normalizes err into an Event classified by the
// severity rules and carrying a structured stack trace.
func (c *Client) buildExceptionEvent(err error, opts captureConfig) *Event {
	severity := DetermineSeverity(err)

	message := err.Error()
	if message == "" {
		message = placeholderMessage
	}

	// Prefer the runtime's structured frames. Preformatted trace text is
	// a compatibility path for errors that already carry one.
	rawText := opts.rawTrace
	if rawText == "" {
		if tracer, ok := err.(rawTracer); ok {
			rawText = tracer.StackTrace()
		}
	}
	var trace StackTrace
	if rawText != "" {
		trace = ParseStackTrace(rawText)
	} else {
		trace = callerFrames(2)
		rawText = formatFrames(trace)
	}

	var file string
	var line int
	for _, frame := range trace {
		if frame.parsed() {
			file = frame.File
			line = frame.Line
			break
		}
	}

	contexts := captureContexts()

	additional := map[string]any{
		"file":     file,
		"line":     line,
		"trace":    rawText,
		"hostname": contexts.System.Hostname,
	}
	c.mergeExtra(additional, opts.extra)

	event := &Event{
		ErrorMessage:   message,
		ErrorType:      fmt.Sprintf("%T", err),
		ErrorLevel:     DetermineLevel(kindError, severity),
		ErrorSeverity:  severity,
		Environment:    c.cfg.Environment,
		UserAgent:      placeholderUserAgent,
		Timestamp:      time.Now().Format(timestampLayout),
		AdditionalData: additional,
		StackTrace:     trace,
		Contexts:       contexts,
		Release:        c.cfg.Release,
		Component:      c.cfg.Component,
		MemoryUsage:    memoryUsage(),
		Tags:           []string{},
	}
	c.applyCaptureOptions(event, opts)
	c.logPayload(event)
	return event
}

// buildRequestEvent normalizes one handled HTTP request into an Event.
// Request events are informational: severity low, level WARNING, and an
// empty stack trace.
func (c *Client) buildRequestEvent(data RequestData, responseTimeMs float64, opts captureConfig) *Event {
	contexts := captureContexts()

	message := strings.TrimSpace(data.Method + " " + data.URL)
	if message == "" {
		message = "HTTP Request"
	}

	additional := map[string]any{
		"headers":  c.sanitizer.TransformHeaders(data.Headers),
		"query":    c.sanitizer.TransformQuery(data.Query),
		"body":     c.sanitizer.Sanitize(data.Body),
		"method":   data.Method,
		"host":     data.Host,
		"protocol": data.Protocol,
		"hostname": contexts.System.Hostname,
		"port":     data.Port,
	}
	c.mergeExtra(additional, opts.extra)

	event := &Event{
		ErrorMessage:   message,
		ErrorType:      ErrorTypeHTTPRequest,
		ErrorLevel:     DetermineLevel(kindRequest, SeverityLow),
		ErrorSeverity:  SeverityLow,
		Environment:    c.cfg.Environment,
		IP:             data.IP,
		UserAgent:      data.UserAgent,
		URL:            data.URL,
		Timestamp:      time.Now().Format(timestampLayout),
		AdditionalData: additional,
		StackTrace:     StackTrace{},
		Contexts:       contexts,
		Release:        c.cfg.Release,
		Component:      c.cfg.Component,
		MemoryUsage:    memoryUsage(),
		ResponseTime:   responseTimeMs,
		Tags:           []string{},
	}
	c.applyCaptureOptions(event, opts)
	c.logPayload(event)
	return event
}

// applyCaptureOptions copies per-call extras onto the event.
func (c *Client) applyCaptureOptions(event *Event, opts captureConfig) {
	event.TransactionID = opts.transactionID
	event.Category = opts.category
	event.RootCause = opts.rootCause
	if len(opts.tags) > 0 {
		event.Tags = append(event.Tags, opts.tags...)
	}
	switch {
	case opts.fingerprint != "":
		event.Fingerprint = opts.fingerprint
	case c.cfg.AutoFingerprint:
		event.Fingerprint = Fingerprint(event)
	}
}

// mergeExtra redacts and coerces caller-supplied extras into the event's
// additionalData. Keys collide in favor of the extras.
func (c *Client) mergeExtra(additional map[string]any, extra map[string]any) {
	if len(extra) == 0 {
		return
	}
	for key, value := range extra {
		if c.sanitizer.isSensitiveKey(key) {
			additional[key] = Redacted
			continue
		}
		additional[key] = c.sanitizer.Sanitize(value)
	}
}

// logPayload emits the full constructed payload at debug level.
func (c *Client) logPayload(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		c.logger.Debug("event payload not serializable", "error", err)
		return
	}
	c.logger.Debug("constructed event payload", "payload", string(data))
}
