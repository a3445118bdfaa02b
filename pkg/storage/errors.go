package storage

type storageError string

func (e storageError) Error() string {
	return string(e)
}

const (
	// ErrNotFound is returned when a lookup matched no rows. An empty
	// result is a normal outcome, not a failure.
	ErrNotFound = storageError("not found")

	// ErrUnknownResource is returned when an operation names a resource
	// outside the five the store routes. Nothing is executed.
	ErrUnknownResource = storageError("unknown resource")

	// ErrConstraint is returned for a malformed field set, for example a
	// column the target resource does not carry.
	ErrConstraint = storageError("constraint violation")

	// ErrUnavailable is returned when the engine failed to open or write
	// the backing file.
	ErrUnavailable = storageError("storage unavailable")
)
