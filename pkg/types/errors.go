package types

import "errors"

// Domain errors for type validation
var (
	// Fingerprint pair errors
	ErrInvalidHash   = errors.New("hash must be a non-empty hexadecimal string")
	ErrInvalidOffset = errors.New("offset must be >= 0")
)
