package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	ErrUnknownProvider = errors.New("secret: provider is not registered")
	ErrEmptyRef        = errors.New("secret: ref is required")
	ErrEmptyValue      = errors.New("secret: resolved value is empty")
	ErrNotFound        = errors.New("secret: not found")
	ErrMissingEnv      = errors.New("secret: missing required environment variables")
)
