package models

import "errors"

// Duplication failure kinds. Handlers map them to response codes with errors.Is.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrTypeNotSupported is returned when the record's content type does not allow duplication.
	ErrTypeNotSupported = errors.New("content type cannot be duplicated")

	// ErrForbidden is returned when the caller lacks an edit or create capability.
	ErrForbidden = errors.New("permission denied")

	// ErrTargetNotAllowed is returned when the target type is unknown or not a transform target.
	ErrTargetNotAllowed = errors.New("target content type is not allowed")

	// ErrDuplicationFailed is returned when the new record could not be stored.
	ErrDuplicationFailed = errors.New("failed to duplicate record")
)
