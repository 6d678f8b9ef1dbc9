package walk

import (
	"errors"
	"fmt"
)

// Domain errors for walk generation and summaries.
var (
	// ErrInvalidParameter indicates malformed or out-of-range walk parameters.
	ErrInvalidParameter = errors.New("walk: invalid parameter")

	// ErrEmptyBatch indicates statistics were requested over zero walks.
	ErrEmptyBatch = errors.New("walk: empty batch")
)

// ParamError wraps ErrInvalidParameter with the offending field.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
