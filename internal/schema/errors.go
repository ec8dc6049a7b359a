package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema is returned when a schema document cannot be compiled.
var ErrInvalidSchema = errors.New("invalid schema")

func invalidSchemaf(path, format string, args ...interface{}) error {
	if path == "" {
		path = "(root)"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidSchema, path, fmt.Sprintf(format, args...))
}

// Violation is one way a property bag fails its schema.
type Violation struct {
	// Path is a JSON pointer to the offending value ("" for the root, "/items/0/sku").
	Path    string `json:"path"`
	Keyword string `json:"keyword"`
	Message string `json:"message"`

	ExpectedType string `json:"expected_type,omitempty"`
	ActualType   string `json:"actual_type,omitempty"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("field '%s': %s", v.Path, v.Message)
}

// JoinViolations renders violations as a single description.
func JoinViolations(violations []Violation) string {
	if len(violations) == 0 {
		return "validation failed"
	}
	if len(violations) == 1 {
		return violations[0].String()
	}

	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// ValidationDetailer surfaces structured validation details for API error responses.
// Implemented by validation error types so consumers extract details without
// type-asserting against concrete structs.
type ValidationDetailer interface {
	Details() map[string]interface{}
}

func newTypeMismatch(path string, expected []string, actual string) Violation {
	want := strings.Join(expected, " or ")
	return Violation{
		Path:         path,
		Keyword:      "type",
		Message:      fmt.Sprintf("expected %s, got %s", want, actual),
		ExpectedType: want,
		ActualType:   actual,
	}
}

func newRequiredField(path string) Violation {
	return Violation{
		Path:    path,
		Keyword: "required",
		Message: "required field is missing",
	}
}
