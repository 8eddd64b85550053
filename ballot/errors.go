package ballot

import "errors"

var (
	// ErrNotWhitelisted is returned when the caller is not in the box's
	// frozen voter_list.
	ErrNotWhitelisted = errors.New("ballot: operator is not in the voter list")
	// ErrAlreadyFinalized is returned when a vote or finalize is attempted
	// on a box that has already minted its result.
	ErrAlreadyFinalized = errors.New("ballot: box is already finalized")
	// ErrBallotSpaceExhausted is returned when a new distinct ballot is
	// cast after the tally table has reached MaxBallotTallies.
	ErrBallotSpaceExhausted = errors.New("ballot: ballot tally table is full")
	// ErrConsensusAlreadyReached is returned by RemoveVote and
	// SetTieBreaker once a winning ballot has been set.
	ErrConsensusAlreadyReached = errors.New("ballot: consensus has already been reached")
	// ErrConsensusNotReached is returned by FinalizeBallot when no winning
	// ballot has been set.
	ErrConsensusNotReached = errors.New("ballot: consensus has not been reached")
	// ErrVotingExpired is returned by CastVote and RemoveVote once the vote
	// expiry has passed.
	ErrVotingExpired = errors.New("ballot: voting period has expired")
	// ErrVotingNotExpired is returned by SetTieBreaker before the vote
	// expiry has passed.
	ErrVotingNotExpired = errors.New("ballot: voting period has not yet expired")
	// ErrNoVoteToRemove is returned by RemoveVote when the operator has no
	// recorded vote.
	ErrNoVoteToRemove = errors.New("ballot: operator has no vote to remove")
	// ErrSnapshotSlotInPast is returned when a box is created for a slot
	// that is not strictly in the future.
	ErrSnapshotSlotInPast = errors.New("ballot: snapshot slot is not in the future")
	// ErrResetPreconditionsUnmet is returned when Reset is attempted
	// outside the narrow window it is permitted in.
	ErrResetPreconditionsUnmet = errors.New("ballot: reset preconditions not met")
	// ErrUnauthorized is returned when a tie-break-admin-only operation is
	// attempted by a different caller.
	ErrUnauthorized = errors.New("ballot: caller is not the tie-breaker admin")
)
