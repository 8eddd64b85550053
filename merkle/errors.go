package merkle

import "errors"

var (
	// ErrProofInvalid is returned when a proof folds to a hash that does not
	// match the expected root.
	ErrProofInvalid = errors.New("merkle: proof does not fold to the expected root")
	// ErrProofTooLong is returned when a proof would need more than
	// MaxProofLen siblings.
	ErrProofTooLong = errors.New("merkle: proof exceeds maximum length")
	// ErrLeafIndexOutOfRange is returned when a proof is requested for a
	// leaf index outside the tree's bounds.
	ErrLeafIndexOutOfRange = errors.New("merkle: leaf index out of range")
)
