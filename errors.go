package phys2d

import "fmt"

// ConfigurationError reports invalid construction input: degenerate
// geometry, out-of-range material values. No partial object is produced
// alongside one.
type ConfigurationError struct {
	Op     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("phys2d: %s: %s", e.Op, e.Reason)
}

func configErr(op, format string, args ...interface{}) error {
	return &ConfigurationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// UsageError reports an API contract violation: re-entrant stepping,
// operating on a destroyed object, mixing objects across worlds. Surfaced
// synchronously to the caller.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("phys2d: %s: %s", e.Op, e.Reason)
}

func usageErr(op, format string, args ...interface{}) error {
	return &UsageError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
