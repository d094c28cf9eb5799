package gguf

import "fmt"

// formatError signals a malformed GGUF buffer: bad magic, unsupported
// version, or an entry that cannot be decoded at any buffer length.
type formatError struct{ msg string }

func (e formatError) Error() string { return "gguf format: " + e.msg }

// ErrFormat constructs a formatError with a printf-style message.
func ErrFormat(format string, args ...any) error {
	return formatError{msg: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether err indicates a malformed GGUF file.
func IsFormatError(err error) bool {
	_, ok := err.(formatError)
	return ok
}

// missingKeyError signals a required metadata key with no defined fallback.
type missingKeyError struct{ key string }

func (e missingKeyError) Error() string { return "missing required metadata key: " + e.key }

// ErrMissingKey constructs a missingKeyError for the given key.
func ErrMissingKey(key string) error { return missingKeyError{key: key} }

// IsMissingKey reports whether err indicates an absent required key.
func IsMissingKey(err error) bool {
	_, ok := err.(missingKeyError)
	return ok
}
