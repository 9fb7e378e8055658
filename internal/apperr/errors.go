// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDanglingReference = errors.New("dangling reference")
	ErrValidation        = errors.New("validation failed")

	// Import failures. The current dataset is never touched when one of these is returned.
	ErrMalformedImport      = errors.New("malformed import")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidDataset       = errors.New("invalid dataset")

	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrConfirmationRequired = errors.New("confirmation required")
)
