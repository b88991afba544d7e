package social

import (
	"errors"

	"github.com/dreamware/snapfeed/internal/storage"
)

// Kind classifies a failure so adapters can map it to a transport status
type Kind int

const (
	// KindInternal is anything not otherwise classified
	KindInternal Kind = iota
	// KindNotFound means a referenced entity is absent
	KindNotFound
	// KindConflict means a uniqueness rule was violated
	KindConflict
	// KindBadRequest means the input is malformed or not allowed
	KindBadRequest
	// KindUnauthorized means identity is missing or credentials didn't match
	KindUnauthorized
)

// String returns a lowercase name for the kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

var (
	// ErrUnauthorized is returned when the acting user can't be resolved
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned for malformed request fields
	ErrInvalidInput = errors.New("invalid input")
)

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, storage.ErrPostNotFound), errors.Is(err, storage.ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, storage.ErrUsernameTaken):
		return KindConflict
	case errors.Is(err, storage.ErrSelfFollow), errors.Is(err, ErrInvalidInput):
		return KindBadRequest
	case errors.Is(err, storage.ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
