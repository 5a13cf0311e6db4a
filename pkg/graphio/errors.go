package graphio

import (
	"errors"
	"fmt"
)

// ErrBadFormat is returned when a file cannot be parsed as the expected
// artifact format.
var ErrBadFormat = errors.New("bad file format")

// FormatError reports which file failed to parse and why.
type FormatError struct {
	Path  string
	Cause error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bad file format %s: %v", e.Path, e.Cause)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

func (e *FormatError) Is(target error) bool {
	return target == ErrBadFormat
}
