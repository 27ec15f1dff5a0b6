package domain

import "errors"

var (
	// ErrProviderNotConfigured means the live provider has no credentials.
	ErrProviderNotConfigured = errors.New("provider not configured")
	// ErrProviderRequestFailed covers network, auth, status and payload failures.
	ErrProviderRequestFailed = errors.New("provider request failed")
	// ErrSchemaValidationFailed is returned when the generative fallback
	// cannot produce a result matching the output schema.
	ErrSchemaValidationFailed = errors.New("schema validation failed")
	// ErrInvalidQuery rejects resolver input before any source is called.
	ErrInvalidQuery = errors.New("invalid query")
)
