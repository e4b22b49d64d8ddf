package stringz

import (
	"fmt"
	"time"
)

// ChainError provides rich context about a chain evaluation failure.
// It wraps the underlying error with the name of the step that raised it
// and the value the chain held immediately before that step ran.
type ChainError struct {
	Timestamp time.Time
	Err       error
	Step      Name
	Value     string
	Duration  time.Duration
}

// Error implements the error interface, providing a detailed error message.
func (e *ChainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("step %q failed on %q: %v", e.Step, e.Value, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *ChainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BridgeError reports a failure at a mode-switch seam. Bridges force
// evaluation of the current chain before seeding the next one; a failure
// there is always fatal and never delegated to a handler, so bridge methods
// panic with this type.
//
// Err is nil when an assertion chain simply evaluated to false; otherwise
// it carries the step error that interrupted evaluation.
type BridgeError struct {
	Err   error
	Step  Name
	Value string
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("assertion failed at step %q", e.Step)
	}
	return fmt.Sprintf("bridge: step %q failed on %q: %v", e.Step, e.Value, e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *BridgeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// normalizePanic converts a recovered panic value into an error. Values
// that are already errors keep their identity; anything else is wrapped in
// a generic error carrying its string form.
func normalizePanic(r interface{}) error {
	if r == nil {
		return fmt.Errorf("unknown panic (nil value)")
	}
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic occurred: %v", r)
}
