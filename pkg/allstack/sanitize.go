// sanitize.go implements sensitive-data redaction and string coercion for
// the untyped nested data attached to events (request bodies, query
// parameters, free-form metadata).

package allstack

import (
	"math"
	"strconv"
	"strings"
)

// Redacted is the marker value substituted for sensitive fields.
const Redacted = "[REDACTED]"

// defaultSensitiveKeys are matched as case-insensitive substrings of field
// names. The first match redacts the field's entire value regardless of
// its type.
var defaultSensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"credit_card",
}

// Sanitizer redacts sensitive fields and coerces string-typed primitives
// in untyped nested data. Redaction and coercion happen during event
// construction only; the transport never rewrites payloads.
type Sanitizer struct {
	sensitiveKeys []string
}

// NewSanitizer creates a Sanitizer with the default sensitive-key set plus
// any extra markers.
func NewSanitizer(extraKeys ...string) *Sanitizer {
	keys := make([]string, 0, len(defaultSensitiveKeys)+len(extraKeys))
	keys = append(keys, defaultSensitiveKeys...)
	for _, k := range extraKeys {
		keys = append(keys, strings.ToLower(k))
	}
	return &Sanitizer{sensitiveKeys: keys}
}

// Sanitize applies redaction and coercion recursively to one decoded JSON
// value. Nested mappings are walked in full; sequence elements are walked
// only when they are themselves containers, scalar elements pass through
// uncoerced.
func (s *Sanitizer) Sanitize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return s.sanitizeMap(v)
	case []any:
		return s.sanitizeSlice(v)
	default:
		return v
	}
}

// SanitizeShallow applies redaction and coercion to the top level of a
// mapping only, leaving nested values untouched. Used for query
// parameters.
func (s *Sanitizer) SanitizeShallow(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		if s.isSensitiveKey(key) {
			out[key] = Redacted
			continue
		}
		out[key] = coerceScalar(value)
	}
	return out
}

// TransformHeaders lower-cases header names and joins multi-value headers
// with ", ". Header values are not redacted or coerced.
func (s *Sanitizer) TransformHeaders(headers map[string][]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return out
}

// TransformQuery joins multi-value parameters with ", " and applies
// one-level redaction and coercion.
func (s *Sanitizer) TransformQuery(query map[string][]string) map[string]any {
	if query == nil {
		return nil
	}
	flat := make(map[string]any, len(query))
	for name, values := range query {
		flat[name] = strings.Join(values, ", ")
	}
	return s.SanitizeShallow(flat)
}

func (s *Sanitizer) sanitizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		// A sensitive key redacts the entire value, containers included.
		if s.isSensitiveKey(key) {
			out[key] = Redacted
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			out[key] = s.sanitizeMap(v)
		case []any:
			out[key] = s.sanitizeSlice(v)
		default:
			out[key] = coerceScalar(v)
		}
	}
	return out
}

func (s *Sanitizer) sanitizeSlice(arr []any) []any {
	out := make([]any, len(arr))
	for i, value := range arr {
		switch v := value.(type) {
		case map[string]any:
			out[i] = s.sanitizeMap(v)
		case []any:
			out[i] = s.sanitizeSlice(v)
		default:
			out[i] = v
		}
	}
	return out
}

// isSensitiveKey checks a field name against the sensitive-key markers.
func (s *Sanitizer) isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range s.sensitiveKeys {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// coerceScalar converts boolean- and number-shaped strings to their typed
// values. The literals "true" and "false" become booleans, integer strings
// become int64, other numeric strings become float64; anything else passes
// through unchanged.
func coerceScalar(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}
