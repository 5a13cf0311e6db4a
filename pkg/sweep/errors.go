package sweep

import (
	"errors"
	"fmt"
)

// Sweep errors
var (
	// ErrInvalidGrid is returned when a parameter grid fails validation
	ErrInvalidGrid = errors.New("invalid sweep grid")

	// ErrNoResults is returned when every task in a sweep failed
	ErrNoResults = errors.New("sweep produced no successful result")
)

// InvalidGridError reports the first grid field that failed validation.
type InvalidGridError struct {
	Field  string
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("invalid sweep grid: %s: %s", e.Field, e.Reason)
}

func (e *InvalidGridError) Unwrap() error {
	return ErrInvalidGrid
}
