package models

import "errors"

// Failure taxonomy shared by the catalog, the blob store and the media
// service. Handlers map these onto HTTP status codes; anything that is not
// one of these is treated as an internal error.
var (
	// ErrValidation marks a malformed or missing required attribute.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers an absent record, an absent blob reference and an
	// absent blob alike. Malformed identifiers fold into it as well.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is known but not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized means the caller could not be identified.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorage is a read or write failure in an underlying store,
	// distinct from absence: the reference exists but the bytes could not
	// be moved.
	ErrStorage = errors.New("storage failure")
)
