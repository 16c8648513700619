package helper

import (
	"strings"
)

// Error is an error with the chain of operations it passed through.
// The innermost operation is the first trace entry.
type Error struct {
	Original error
	Trace    []string
}

// Error implements the error interface, printing the outermost operation first
func (e Error) Error() string {
	parts := make([]string, 0, len(e.Trace)+1)
	for i := len(e.Trace) - 1; i >= 0; i-- {
		parts = append(parts, e.Trace[i])
	}
	if e.Original != nil {
		parts = append(parts, e.Original.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the original error so errors.Is and errors.As keep working
func (e Error) Unwrap() error {
	return e.Original
}

// NewError wraps an error with the operation that failed.
// Wrapping an Error again appends to its trace instead of nesting it.
func NewError(trace string, original error) error {
	if err, ok := original.(Error); ok {
		err.Trace = append(append([]string{}, err.Trace...), trace)
		return err
	}
	return Error{
		Original: original,
		Trace:    []string{trace},
	}
}
