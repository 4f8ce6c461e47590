package standingsdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested player or tournament does not exist.
	ErrNotFound = errors.New("not found")
)
