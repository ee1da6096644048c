package errors

import (
	"errors"
)

// Sentinel errors for different failure categories
var (
	// ErrConfig - invalid or missing configuration (fatal, process exits nonzero)
	ErrConfig = errors.New("configuration error")

	// ErrAuth - API rejected the credential (fatal, process exits nonzero)
	ErrAuth = errors.New("authentication error")

	// ErrTransient - network/rate-limit/server failure (bounded retry, then return to user)
	ErrTransient = errors.New("transient error")

	// ErrPermissionDenied - user declined an approval prompt (never fatal, fed back to the model)
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput - malformed tool arguments (converted to an error tool result)
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - unknown tool or missing resource (converted to an error tool result)
	ErrNotFound = errors.New("not found")

	// ErrConflict - another session holds the runtime lock (fatal at startup)
	ErrConflict = errors.New("conflict")

	// ErrDesync - conversation bookkeeping no longer matches the API's
	// expectations, e.g. a duplicate tool-call id (fatal)
	ErrDesync = errors.New("conversation desynchronized")

	// ErrInternal - anything unclassified
	ErrInternal = errors.New("internal error")
)
