package core

import (
	"fmt"
)

// MissingFieldError reports a webhook payload that arrived without a field the
// pipeline cannot proceed without.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("webhook payload is missing %s", e.Field)
}

// UnsupportedEventError reports a structurally valid payload whose event type
// or action is outside the set this service handles.
type UnsupportedEventError struct {
	Action string
}

func (e *UnsupportedEventError) Error() string {
	return fmt.Sprintf("unsupported event action: %s", e.Action)
}

// ResponseFormatError reports a review-service response that violated the
// structured-output contract. It is distinguishable from transport failures so
// callers can tell "the model answered garbage" apart from "the call failed".
type ResponseFormatError struct {
	Reason string
}

func (e *ResponseFormatError) Error() string {
	return "invalid review response format: " + e.Reason
}

// NormalizeRecovered converts an arbitrary recovered value into an error.
// Non-error panics (strings, plain values, nil) collapse to "Unknown error"
// so nothing untyped ever propagates out of a pipeline run.
func NormalizeRecovered(v any) error {
	switch t := v.(type) {
	case nil:
		return fmt.Errorf("Unknown error")
	case error:
		return t
	default:
		return fmt.Errorf("Unknown error")
	}
}
