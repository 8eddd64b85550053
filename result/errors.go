package result

import "errors"

var (
	// ErrAlreadyFinalized is returned by CreateConsensusResult when a
	// result already exists for the given snapshot slot.
	ErrAlreadyFinalized = errors.New("result: consensus result already exists for this snapshot slot")
	// ErrAlreadyExists is returned by InitMetaMerkleProof when a proof
	// already exists at the derived PDA.
	ErrAlreadyExists = errors.New("result: meta merkle proof already exists")
	// ErrNotFound is returned by CloseMetaMerkleProof when it targets a
	// proof that does not exist.
	ErrNotFound = errors.New("result: meta merkle proof not found")
	// ErrNotProofCreator is returned by CloseMetaMerkleProof when the
	// caller is neither the proof's creator nor closing after expiry.
	ErrNotProofCreator = errors.New("result: caller is not the proof creator and expiry has not elapsed")
)
