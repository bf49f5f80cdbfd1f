package inspection

import "errors"

var (
	// ErrStoreNotFound indicates the configured top-level store does not exist on the backend.
	ErrStoreNotFound = errors.New("store not found")

	// ErrAuthFailure indicates the backend (or an API caller) could not be authenticated.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrTagNotFound indicates a point is not in the catalog. This is a configuration bug, never user input.
	ErrTagNotFound = errors.New("tag not found in catalog")

	// ErrNoColumnForToday is returned by a correction when nothing was written today.
	ErrNoColumnForToday = errors.New("no column for today")

	// ErrBackendUnavailable wraps transient backend failures. Callers may resubmit.
	ErrBackendUnavailable = errors.New("backend unavailable")

	ErrUnknownArea    = errors.New("unknown area")
	ErrDuplicatePoint = errors.New("duplicate inspection point")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
