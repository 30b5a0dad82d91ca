// fingerprint.go generates stable hashes for grouping similar events.

package allstack

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint generates a hash for grouping similar events.
// The fingerprint is based on:
//   - errorType, component, environment
//   - First 3 stack frames (function names only)
//
// It ignores variable data like timestamps, messages, line numbers,
// and request payloads, so recurrences of one fault share a hash.
func Fingerprint(event *Event) string {
	// Build the fingerprint input from stable fields
	var parts []string
	parts = append(parts, event.ErrorType)
	parts = append(parts, event.Component)
	parts = append(parts, event.Environment)

	// Add the leading function names
	parts = append(parts, frameFunctions(event.StackTrace)...)

	// Join and hash
	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))

	// Return hex-encoded first 16 bytes (32 hex chars)
	return hex.EncodeToString(hash[:16])
}

// frameFunctions extracts function names from the first 3 frames that
// carry one, skipping raw lines the parser could not break apart.
func frameFunctions(trace StackTrace) []string {
	var funcs []string
	for _, frame := range trace {
		if frame.Function == "" {
			continue
		}
		funcs = append(funcs, frame.Function)
		if len(funcs) >= 3 {
			break
		}
	}
	return funcs
}
