package ledger

import "errors"

// Kind classifies an engine failure so the transport layer can map it to a
// status without string matching.
type Kind int

// Failure kinds
const (
	KindUnknown      Kind = iota // Not an engine error; surfaces as a server error
	KindInvalidInput             // Malformed or out-of-policy request
	KindNotFound                 // Referenced account/transaction/user does not exist
	KindForbidden                // Authenticated but not authorized for the target
)

// Error is a typed engine failure carrying the specific reason string
type Error struct {
	Kind   Kind   // Failure classification
	Reason string // Specific reason, surfaced to the caller
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Reason
}

// ErrInvalidInput builds an InvalidInput failure
func ErrInvalidInput(reason string) error {
	return &Error{Kind: KindInvalidInput, Reason: reason}
}

// ErrNotFound builds a NotFound failure
func ErrNotFound(reason string) error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

// ErrForbidden builds a Forbidden failure
func ErrForbidden(reason string) error {
	return &Error{Kind: KindForbidden, Reason: reason}
}

// KindOf extracts the failure kind from an error chain; KindUnknown when the
// error did not originate in the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ErrRecordMissing is the sentinel stores return for absent records; the
// engine translates it into a NotFound failure with the proper reason.
var ErrRecordMissing = errors.New("record missing")
