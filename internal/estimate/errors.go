package estimate

import "fmt"

// validationError signals caller input that fails range checks before any
// I/O or calculation happens.
type validationError struct{ msg string }

func (e validationError) Error() string { return "invalid input: " + e.msg }

// ErrValidation constructs a validationError with a printf-style message.
func ErrValidation(format string, args ...any) error {
	return validationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err indicates rejected caller input.
func IsValidation(err error) bool {
	_, ok := err.(validationError)
	return ok
}
