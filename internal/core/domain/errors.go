package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmptyDocument indicates a document produced no text.
	ErrEmptyDocument = errors.New("empty document")

	// Retrieval Errors.

	// ErrStoreNotReady indicates a query against chunks that have not been
	// embedded under the current vocabulary. Run EmbedAll first.
	ErrStoreNotReady = errors.New("retrieval store not ready")

	// ErrStaleVector indicates a comparison between vectors computed under
	// different vocabulary generations.
	ErrStaleVector = errors.New("vector computed under a stale vocabulary")

	// Model Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrNonTextResponse indicates the model replied without any text content.
	ErrNonTextResponse = errors.New("model returned no text content")

	// ErrMissingCredential indicates a required API key is absent.
	// This is the only configuration error that stops startup.
	ErrMissingCredential = errors.New("missing credential")

	// ErrRateLimited indicates the request rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
