// event.go defines the canonical event data structure and its wire encoding.

package allstack

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Severity is the coarse impact tier derived from an exception's type and
// message.
type Severity string

const (
	// SeverityLow is the default tier for unclassified errors.
	SeverityLow Severity = "low"

	// SeverityMedium indicates transient infrastructure trouble such as
	// timeouts and network failures.
	SeverityMedium Severity = "medium"

	// SeverityHigh indicates a runtime fault class (type mismatches and
	// other engine errors).
	SeverityHigh Severity = "high"

	// SeverityCritical indicates an unrecoverable fault such as a syntax
	// error.
	SeverityCritical Severity = "critical"
)

// Level is the discrete logging-style classification derived from severity
// and event kind.
type Level string

const (
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// ErrorTypeHTTPRequest is the errorType tag marking an HTTP transaction
// event as opposed to an exception event.
const ErrorTypeHTTPRequest = "HTTPRequest"

// timestampLayout is the collector's timestamp format: ISO-8601 local time
// without a zone offset, second precision.
const timestampLayout = "2006-01-02T15:04:05"

// Frame is one entry of a structured stack trace. A frame is either parsed
// (file, line, column, function) or raw (the original trace line verbatim
// when it did not match the expected format).
type Frame struct {
	// File is the source file path of a parsed frame.
	File string

	// Line is the 1-based source line of a parsed frame.
	Line int

	// Column is always 0: neither Go nor the trace text format reports
	// call columns.
	Column int

	// Function is the function or method identifier of a parsed frame.
	Function string

	// Raw holds the original line text for frames that could not be
	// parsed. It may be empty for blank input lines.
	Raw string
}

// parsed reports whether the frame carries structured location data.
func (f Frame) parsed() bool {
	return f.File != "" || f.Function != ""
}

type parsedFrameJSON struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Function string `json:"function"`
}

type rawFrameJSON struct {
	Raw string `json:"raw"`
}

// MarshalJSON encodes a parsed frame as {file, line, column, function} and
// a raw frame as {raw}. Column is emitted even when 0.
func (f Frame) MarshalJSON() ([]byte, error) {
	if !f.parsed() {
		return json.Marshal(rawFrameJSON{Raw: f.Raw})
	}
	return json.Marshal(parsedFrameJSON{
		File:     f.File,
		Line:     f.Line,
		Column:   f.Column,
		Function: f.Function,
	})
}

// StackTrace is an ordered sequence of frames. On the wire it is an object
// keyed "frame0", "frame1", ... in original order; an empty trace encodes
// as {} to mirror "no trace available".
type StackTrace []Frame

// MarshalJSON writes the frames as an object with ordinal keys. Go map
// encoding would re-sort the keys lexicographically (frame10 before
// frame2), so the object is written by hand in slice order.
func (st StackTrace) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, frame := range st {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", fmt.Sprintf("frame%d", i))
		b, err := json.Marshal(frame)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RuntimeContext describes the language runtime the event was captured in.
type RuntimeContext struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// SystemContext describes the host machine.
type SystemContext struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Hostname string `json:"hostname"`
	NumCPU   int    `json:"numCpu"`
}

// ProcessContext describes the capturing process.
type ProcessContext struct {
	PID        int    `json:"pid"`
	Executable string `json:"executable"`
	Goroutines int    `json:"goroutines"`
}

// Contexts bundles the static environment descriptors attached to every
// event.
type Contexts struct {
	Runtime RuntimeContext `json:"runtime"`
	System  SystemContext  `json:"system"`
	Process ProcessContext `json:"process"`
}

// Event is one normalized, delivery-ready telemetry record representing a
// captured exception or HTTP transaction. The JSON field names and nesting
// are part of the collector wire contract. An Event is never mutated after
// validation accepts it; redaction and coercion happen during construction,
// not at the transport boundary.
type Event struct {
	// Classification

	// ErrorMessage is the human-readable message. Never empty: unlabeled
	// exceptions receive a fixed placeholder.
	ErrorMessage string `json:"errorMessage"`

	// ErrorType is the fully-qualified error type name, or the literal
	// kind tag "HTTPRequest" for transaction events.
	ErrorType string `json:"errorType"`

	ErrorLevel    Level    `json:"errorLevel"`
	ErrorSeverity Severity `json:"errorSeverity"`

	// Origin

	Environment string `json:"environment"`

	// IP, UserAgent and URL may be empty for non-request events.
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	URL       string `json:"url"`

	// Timestamp is local time formatted as 2006-01-02T15:04:05.
	Timestamp string `json:"timestamp"`

	// AdditionalData is event-kind-specific: file/line/trace/hostname for
	// exceptions, headers/query/body/method/host/protocol/port for
	// requests.
	AdditionalData map[string]any `json:"additionalData"`

	// StackTrace is empty ({}) for request events.
	StackTrace StackTrace `json:"stackTrace"`

	Contexts Contexts `json:"contexts"`

	// Free-form grouping fields, default empty.

	Release       string `json:"release"`
	Component     string `json:"component"`
	TransactionID string `json:"transactionId"`
	Fingerprint   string `json:"fingerprint"`
	RootCause     string `json:"rootCause"`
	Category      string `json:"category"`

	// Resource usage

	// MemoryUsage is the allocated heap in bytes at capture time.
	MemoryUsage int64 `json:"memoryUsage"`

	// CPUUsage has no defined semantics and is never computed; it encodes
	// as null.
	CPUUsage *float64 `json:"cpuUsage"`

	// ResponseTime is the request duration in milliseconds, 0 for
	// exception events.
	ResponseTime float64 `json:"responseTime"`

	Tags []string `json:"tags"`
}
