package storage

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is returned when a referenced song does not exist
	ErrNotFound = errors.New("song not found")
)

// StoreError wraps errors with operation context
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("fingerprintstore: %v", e.Err)
	}
	return fmt.Sprintf("fingerprintstore: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
