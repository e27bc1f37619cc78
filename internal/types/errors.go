package types

import "errors"

var (
	// ErrEmptyContainer is returned when a container holds no displayable keys
	ErrEmptyContainer = errors.New("container has no records")

	// ErrCorruptContainer is returned when the container bytes cannot be read as a table
	ErrCorruptContainer = errors.New("container is corrupt or not a database")

	// ErrUnknownKey is returned when a key is not part of the loaded record set
	ErrUnknownKey = errors.New("unknown key")

	// ErrNoTargetBound is returned when saving without a writable target
	ErrNoTargetBound = errors.New("no file is open")

	// ErrStoreWrite is returned when the store rejects a row update or export
	ErrStoreWrite = errors.New("store write failed")

	// ErrSinkWrite is returned when writing the exported bytes to the target fails
	ErrSinkWrite = errors.New("file write failed")

	// ErrBusy is returned when a load or save is requested while another is in flight
	ErrBusy = errors.New("another load or save is in progress")

	// ErrUnsupportedFile is returned when a file does not carry an accepted extension
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Classify maps an error to the notification status it should be reported with.
// A nil error is a success.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrNoTargetBound),
		errors.Is(err, ErrEmptyContainer),
		errors.Is(err, ErrBusy),
		errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrUnknownKey):
		return StatusWarning
	default:
		return StatusError
	}
}
