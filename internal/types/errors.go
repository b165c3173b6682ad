package types

import (
	"fmt"
	"sort"
	"strings"
)

// RequestValidationError is a request-shape error raised while parsing an
// untrusted permission request, itemized per offending field. It is the
// single rejection point for malformed input; nothing downstream
// re-validates structure.
type RequestValidationError struct {
	Fields map[string]string
}

// NewRequestValidationError creates an empty itemized validation error
func NewRequestValidationError() *RequestValidationError {
	return &RequestValidationError{Fields: make(map[string]string)}
}

// Add records one offending field
func (e *RequestValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors reports whether any field was recorded
func (e *RequestValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *RequestValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid permission request: " + strings.Join(parts, "; ")
}
