package search

import "github.com/cockroachdb/errors"

var (
	// ErrTransport is returned when the backend could not be reached
	// or responded with non-success status.
	ErrTransport = errors.New("search service unavailable")
	// ErrBackend is returned when the backend response could not be used.
	ErrBackend = errors.New("search failed")
)

// IsTransport returns true if the error is caused by network failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
