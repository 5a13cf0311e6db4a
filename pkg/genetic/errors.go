package genetic

import (
	"errors"
	"fmt"
)

// Detection errors
var (
	// ErrInvalidConfig is returned when detection options fail validation
	ErrInvalidConfig = errors.New("invalid detection options")
)

// InvalidConfigError reports the first option field that failed validation,
// with a human-readable reason.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid detection options: %s: %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}
