package vsnap

import "errors"

var (
	// ErrBallotBoxAlreadyExists is returned by InitBallotBox when a box
	// already exists for the given snapshot slot, mirroring PDA uniqueness
	// on a real chain.
	ErrBallotBoxAlreadyExists = errors.New("vsnap: ballot box already exists for this snapshot slot")
	// ErrBallotBoxNotFound is returned when an operation targets a
	// snapshot slot with no ballot box.
	ErrBallotBoxNotFound = errors.New("vsnap: no ballot box for this snapshot slot")
	// ErrConsensusResultNotFound is returned when verification is
	// attempted against a snapshot slot with no minted result.
	ErrConsensusResultNotFound = errors.New("vsnap: no consensus result for this snapshot slot")
	// ErrMetaMerkleProofNotFound is returned when verification is
	// attempted for a vote account with no initialized proof.
	ErrMetaMerkleProofNotFound = errors.New("vsnap: no meta merkle proof for this vote account")
)
