// validate.go enforces event-kind-specific required fields before delivery.

package allstack

import "fmt"

// ValidationError names the first required field found missing or empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("event field %q is missing or empty", e.Field)
}

// requiredField pairs a wire field name with its accessor. Accessors
// return any so presence can distinguish null and empty string from valid
// zero values such as 0 and false.
type requiredField struct {
	name string
	get  func(*Event) any
}

var requestRequired = []requiredField{
	{"errorMessage", func(e *Event) any { return e.ErrorMessage }},
	{"errorType", func(e *Event) any { return e.ErrorType }},
	{"environment", func(e *Event) any { return e.Environment }},
	{"timestamp", func(e *Event) any { return e.Timestamp }},
	{"url", func(e *Event) any { return e.URL }},
}

var exceptionRequired = []requiredField{
	{"errorMessage", func(e *Event) any { return e.ErrorMessage }},
	{"errorType", func(e *Event) any { return e.ErrorType }},
	{"errorLevel", func(e *Event) any { return string(e.ErrorLevel) }},
	{"environment", func(e *Event) any { return e.Environment }},
	{"timestamp", func(e *Event) any { return e.Timestamp }},
}

// Validate checks the required-field set for the event's shape: request
// events (errorType "HTTPRequest") require errorMessage, errorType,
// environment, timestamp and url; exception events require errorMessage,
// errorType, errorLevel, environment and timestamp. A field is missing
// only when it is nil or the empty string.
func Validate(e *Event) error {
	if e == nil {
		return &ValidationError{Field: "event"}
	}

	var required []requiredField
	switch {
	case e.ErrorType == ErrorTypeHTTPRequest:
		required = requestRequired
	case e.ErrorMessage != "" && e.ErrorType != "":
		required = exceptionRequired
	default:
		if e.ErrorMessage == "" {
			return &ValidationError{Field: "errorMessage"}
		}
		return &ValidationError{Field: "errorType"}
	}

	for _, f := range required {
		if !fieldPresent(f.get(e)) {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// fieldPresent reports required-field presence. Only nil and the empty
// string count as absent; 0 and false are valid values.
func fieldPresent(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}
