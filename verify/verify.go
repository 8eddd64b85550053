// Package verify implements the verification entrypoint: given a
// ConsensusResult and a MetaMerkleProof, answer whether a vote account or a
// stake account is included in the committed snapshot.
package verify

import (
	"fmt"

	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/merkle"
	"github.com/cmwaters/vsnap/result"
	"github.com/cmwaters/vsnap/snapshot"
)

// VoteAccountClaim is what a successful vote-account verification proves
// about the leaf.
type VoteAccountClaim struct {
	VotingWallet    identity.Identity
	ActiveStake     uint64
	StakeMerkleRoot merkle.Hash32
}

// VoteAccount verifies that proof's leaf folds, via its proof path, to
// res's meta_merkle_root, and that proof and res agree on snapshot_slot.
// This is implemented as an explicit function rather than polymorphic
// dispatch: verification has exactly two tagged modes (this one, and
// StakeAccount below which composes it), not an open-ended set.
func VoteAccount(res *result.ConsensusResult, proof *result.MetaMerkleProof) (VoteAccountClaim, error) {
	if proof.SnapshotSlot != res.SnapshotSlot {
		return VoteAccountClaim{}, ErrSnapshotSlotMismatch
	}
	if err := merkle.Verify(proof.Leaf.Encode(), proof.Proof, res.MetaMerkleRoot); err != nil {
		return VoteAccountClaim{}, fmt.Errorf("verify: %w", err)
	}
	return VoteAccountClaim{
		VotingWallet:    proof.Leaf.VotingWallet,
		ActiveStake:     proof.Leaf.ActiveStake,
		StakeMerkleRoot: proof.Leaf.StakeMerkleRoot,
	}, nil
}

// StakeAccountClaim is what a successful stake-account verification proves.
type StakeAccountClaim struct {
	VotingWallet identity.Identity
	ActiveStake  uint64
}

// StakeAccount first performs VoteAccount verification, then verifies that
// stakeLeaf folds, via stakeProof, to the validator's stake_merkle_root.
func StakeAccount(res *result.ConsensusResult, proof *result.MetaMerkleProof, stakeLeaf snapshot.StakeMerkleLeaf, stakeProof []merkle.Hash32) (StakeAccountClaim, error) {
	voteClaim, err := VoteAccount(res, proof)
	if err != nil {
		return StakeAccountClaim{}, err
	}

	if err := merkle.Verify(stakeLeaf.Encode(), stakeProof, voteClaim.StakeMerkleRoot); err != nil {
		return StakeAccountClaim{}, fmt.Errorf("verify: %w", err)
	}
	return StakeAccountClaim{
		VotingWallet: stakeLeaf.VotingWallet,
		ActiveStake:  stakeLeaf.ActiveStake,
	}, nil
}
