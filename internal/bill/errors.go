package bill

import (
	"errors"
	"fmt"
)

var (
	// Validation errors
	ErrMissingName            = errors.New("bill name is required")
	ErrMissingParticipantName = errors.New("participant name is required")
	ErrInvalidAmount          = errors.New("amount must be a positive SOL value")

	// Lookup errors
	ErrNotFound = errors.New("bill not found")
)

// RemoteKind classifies a failure reported by the chain bridge. The UI shows
// different remediation text per kind, so the distinction must survive all
// the way up.
type RemoteKind string

const (
	KindInsufficientFunds RemoteKind = "insufficient-funds"
	KindUserRejected      RemoteKind = "user-rejected"
	KindUnknown           RemoteKind = "unknown"
)

// RemoteError is a failure from the chain bridge or the wallet adapter
// behind it.
type RemoteError struct {
	Kind    RemoteKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote failure (%s): %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("remote failure (%s)", e.Kind)
}

// Unwrap returns the underlying error
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError creates a RemoteError of the given kind.
func NewRemoteError(kind RemoteKind, message string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Message: message, Err: err}
}

// RemoteKindOf extracts the remote failure kind from an error chain.
// Returns KindUnknown for errors that are not RemoteErrors.
func RemoteKindOf(err error) RemoteKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// IsRemote checks if an error is a RemoteError
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
