package source

import "fmt"

// unavailableError signals a locator that cannot be opened or sized at all
// (missing file, unreadable path).
type unavailableError struct {
	locator string
	cause   error
}

func (e unavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.locator, e.cause)
}

func (e unavailableError) Unwrap() error { return e.cause }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(locator string, cause error) error {
	return unavailableError{locator: locator, cause: cause}
}

// IsUnavailable reports whether err indicates an unopenable source.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// networkError signals a transport failure, an unexpected HTTP status, or a
// request timeout while fetching from a remote source.
type networkError struct {
	msg     string
	timeout bool
}

func (e networkError) Error() string { return "network: " + e.msg }

// ErrNetwork constructs a networkError with a printf-style message.
func ErrNetwork(format string, args ...any) error {
	return networkError{msg: fmt.Sprintf(format, args...)}
}

// ErrNetworkTimeout constructs a networkError marked as a timeout.
func ErrNetworkTimeout(format string, args ...any) error {
	return networkError{msg: fmt.Sprintf(format, args...), timeout: true}
}

// IsNetwork reports whether err is any network failure.
func IsNetwork(err error) bool {
	_, ok := err.(networkError)
	return ok
}

// IsNetworkTimeout reports whether err is a network failure caused by a
// request timeout.
func IsNetworkTimeout(err error) bool {
	ne, ok := err.(networkError)
	return ok && ne.timeout
}
