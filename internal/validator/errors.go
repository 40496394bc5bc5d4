package validator

import (
	"errors"
	"fmt"
)

// Policy error kinds.
var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidFormat = errors.New("invalid format")
)

// ValidationError describes why a single field was rejected.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// AsMap maps each failing field to its reason.
func (ve ValidationErrors) AsMap() map[string]string {
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Fields returns the names of the failing fields.
func (ve ValidationErrors) Fields() []string {
	out := make([]string, 0, len(ve))
	for _, e := range ve {
		out = append(out, e.Field)
	}
	return out
}

// PolicyError is the single rejection returned by the service-side check.
// Kind is ErrMissingField or ErrInvalidFormat.
type PolicyError struct {
	Kind    error
	Message string
	Fields  ValidationErrors
}

func (e *PolicyError) Error() string {
	return e.Message
}

func (e *PolicyError) Unwrap() error {
	return e.Kind
}
