package scribe

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request, message, or tool payload failed validation.
	ErrValidation = errors.New("validation error")

	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrMissingAPIKey indicates no language-model credential was configured.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrHistoryIndex indicates a replay index outside the replay history.
	ErrHistoryIndex = errors.New("history index out of range")

	// ErrEmptyResponse indicates the model returned neither text nor a tool call.
	ErrEmptyResponse = errors.New("empty response")
)
