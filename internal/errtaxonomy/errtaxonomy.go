// Package errtaxonomy classifies errors surfaced by the game API and local
// validation into the kinds spec.md 7 requires, as sentinel-wrapped errors
// rather than a framework: callers use errors.Is/errors.As against the Kind
// sentinels below.
package errtaxonomy

import (
	"errors"
	"fmt"
)

// Kind is one of the taxonomy's error categories.
type Kind int

const (
	// Validation: inputs violate preconditions locally; no API call made.
	Validation Kind = iota
	// NotFound: server returned 404 for an entity.
	NotFound
	// Cooldown: server refused because the character is on cooldown.
	Cooldown
	// AlreadyAtDestination: code 490 on move; treated as success upstream.
	AlreadyAtDestination
	// TransientNetwork: timeouts, 5xx, connection errors; retryable.
	TransientNetwork
	// Rejected: other 4xx (insufficient materials, invalid slot, ...).
	Rejected
	// Fatal: unrecoverable; causes loop exit.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "ValidationError"
	case NotFound:
		return "NotFound"
	case Cooldown:
		return "Cooldown"
	case AlreadyAtDestination:
		return "AlreadyAtDestination"
	case TransientNetwork:
		return "TransientNetwork"
	case Rejected:
		return "Rejected"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with its taxonomy Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a taxonomy Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

// Retryable reports whether the executor should retry the attempt that
// produced err (spec.md 7: TransientNetwork retried with backoff).
func Retryable(err error) bool {
	return Is(err, TransientNetwork)
}

// FromHTTPStatus classifies a raw HTTP status code per spec.md 4.6/7.
// op names the operation for error context; err is the underlying cause,
// if any (nil for a clean non-2xx response). FromHTTPStatus never returns
// Cooldown. The executor's cooldown resync (re-reading the character's
// cooldown expiration) runs only for errors built directly with
// New(Cooldown, ...).
func FromHTTPStatus(status int, op string, err error) *Error {
	switch {
	case status == 490:
		return New(AlreadyAtDestination, op, err)
	case status == 404:
		return New(NotFound, op, err)
	case status >= 500:
		return New(TransientNetwork, op, err)
	case status >= 400:
		return New(Rejected, op, err)
	default:
		return New(Fatal, op, err)
	}
}
