package domain

import "errors"

var (
	// ErrUnsupportedFormat signals that the upload's extension is not in the allowlist.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrConversionFailed signals a decode or encode error inside a conversion routine.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrInvalidAPIKey signals that the provided API key is not known.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrTokenStoreNotReady signals that the token store has not been loaded yet.
	// This can happen during startup when the DB isn't ready.
	ErrTokenStoreNotReady = errors.New("token store not ready")
)
