package rth

import (
	"errors"
	"fmt"
)

// RuntimeError represents an operational error that should lead to exit code 2
// Examples include configuration errors, file not found, etc.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// MatrixFailureError represents a matrix run aborted by a failed external
// invocation (exit code 1)
type MatrixFailureError struct {
	Err error
}

func (e *MatrixFailureError) Error() string {
	return fmt.Sprintf("matrix failure: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *MatrixFailureError) Unwrap() error {
	return e.Err
}

// NewMatrixFailureError creates a new MatrixFailureError
func NewMatrixFailureError(err error) *MatrixFailureError {
	return &MatrixFailureError{Err: err}
}

// IsMatrixFailureError checks if the error is or wraps a MatrixFailureError
func IsMatrixFailureError(err error) bool {
	var matrixErr *MatrixFailureError
	return err != nil && errors.As(err, &matrixErr)
}
