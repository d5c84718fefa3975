package filltest

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration that cannot be run. It is
// returned before any file is touched.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ErrInvalidConfig{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidConfig reports whether err is or wraps an *ErrInvalidConfig.
func IsInvalidConfig(err error) bool {
	var ic *ErrInvalidConfig
	return errors.As(err, &ic)
}
