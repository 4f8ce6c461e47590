package standingsdomain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested player or tournament has no rows at all.
	ErrNotFound = errors.New("not found")

	// ErrDataIntegrity indicates the source rows violate an invariant the
	// aggregation depends on. Use errors.As with *IntegrityError for details.
	ErrDataIntegrity = errors.New("data integrity fault")
)

// IntegrityKind classifies a data integrity fault.
type IntegrityKind string

const (
	IntegrityIncompleteGame IntegrityKind = "incomplete_game"
	IntegrityUnsortedRows   IntegrityKind = "unsorted_rows"
	IntegrityUnknownSession IntegrityKind = "unknown_session"
	IntegrityUnknownPlayer  IntegrityKind = "unknown_player"
	IntegrityMalformedRow   IntegrityKind = "malformed_row"
)

// IntegrityError describes a single data integrity fault.
type IntegrityError struct {
	Kind   IntegrityKind
	Detail string
	Err    error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrDataIntegrity, e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrDataIntegrity, e.Kind, e.Detail)
}

// Is reports ErrDataIntegrity as a match so callers can branch on the sentinel.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// NewIntegrityError builds an IntegrityError with a formatted detail.
func NewIntegrityError(kind IntegrityKind, format string, args ...any) *IntegrityError {
	return &IntegrityError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IntegrityKindOf returns the fault kind carried by err, or "" if err is not an integrity fault.
func IntegrityKindOf(err error) IntegrityKind {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}
