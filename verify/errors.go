package verify

import "errors"

// ErrSnapshotSlotMismatch is returned when a MetaMerkleProof's snapshot_slot
// does not match the ConsensusResult it is checked against.
var ErrSnapshotSlotMismatch = errors.New("verify: proof and result disagree on snapshot slot")
