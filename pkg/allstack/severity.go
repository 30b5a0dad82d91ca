// severity.go classifies exceptions into severity tiers and log levels.

package allstack

import (
	"encoding/json"
	"errors"
	"net"
	"runtime"
	"strings"
)

// Event kinds used for level mapping.
const (
	kindError   = "error"
	kindRequest = "request"
)

// DetermineSeverity maps an error's runtime type and message text to a
// severity tier. Rules are evaluated in order and the first match wins:
//
//  1. engine fault classes (type mismatches, runtime errors) are high
//  2. syntax errors are critical
//  3. timeouts and network failures are medium
//  4. everything else is low
//
// Where the runtime exposes a structured error type for a rule
// (runtime.Error, *json.SyntaxError, net.Error) it is consulted alongside
// the message text.
func DetermineSeverity(err error) Severity {
	if err == nil {
		return SeverityLow
	}

	if isRuntimeFault(err) {
		return SeverityHigh
	}

	msg := strings.ToLower(err.Error())
	if isSyntaxFault(err, msg) {
		return SeverityCritical
	}
	if isTransientFault(err, msg) {
		return SeverityMedium
	}
	return SeverityLow
}

// DetermineLevel maps an event kind and severity to the discrete level.
// Exception events (kind "error") escalate to ERROR, any other kind to
// WARNING; critical severity always yields CRITICAL.
func DetermineLevel(kind string, severity Severity) Level {
	if severity == SeverityCritical {
		return LevelCritical
	}
	if kind == kindError {
		return LevelError
	}
	return LevelWarning
}

// isRuntimeFault reports engine-level fault classes: failed type
// assertions and the other runtime.Error kinds, plus JSON decoding type
// mismatches.
func isRuntimeFault(err error) bool {
	var runtimeErr runtime.Error
	if errors.As(err, &runtimeErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

func isSyntaxFault(err error, lowerMsg string) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	return strings.Contains(lowerMsg, "syntax")
}

// isTransientFault covers timeouts and network trouble. Timeout-flagged
// net.Error values (context deadline expiry included) match regardless of
// message text.
func isTransientFault(err error, lowerMsg string) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "network")
}
