package shard

// inconsistentCountError signals disagreement between the filename-derived
// shard total and the metadata-declared one (or a self-contradictory
// filename).
type inconsistentCountError struct{ msg string }

func (e inconsistentCountError) Error() string { return "inconsistent shard count: " + e.msg }

// ErrInconsistentCount constructs an inconsistentCountError.
func ErrInconsistentCount(msg string) error { return inconsistentCountError{msg: msg} }

// IsInconsistentCount reports whether err indicates a shard-count mismatch.
func IsInconsistentCount(err error) bool {
	_, ok := err.(inconsistentCountError)
	return ok
}
