package identity

import "errors"

// ErrInvalidLength is returned when a decoded identity is not exactly Size
// bytes.
var ErrInvalidLength = errors.New("identity: decoded value is not 32 bytes")
