// Package ballot implements the ballot-box state machine: a fixed voter
// snapshot voting toward threshold consensus on a committed two-tier
// Merkle root, with administrative tie-break and reset recovery paths.
package ballot

import (
	"time"

	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/merkle"
	"github.com/rs/zerolog"
)

// MaxBallotTallies bounds the number of distinct ballots a box will ever
// track, matching the whitelist/voter-list bound.
const MaxBallotTallies = 64

// Ballot is the commitment being voted on: a meta-merkle root paired with
// the off-chain snapshot's content hash.
type Ballot struct {
	MetaMerkleRoot merkle.Hash32
	SnapshotHash   merkle.Hash32
}

// Equal compares two ballots by byte-wise equality of both fields.
func (b Ballot) Equal(other Ballot) bool {
	return b.MetaMerkleRoot == other.MetaMerkleRoot && b.SnapshotHash == other.SnapshotHash
}

// BallotTally pairs a ballot with the number of voter_list entries
// currently supporting it.
type BallotTally struct {
	Ballot Ballot
	Tally  int
}

// Clock returns the current time. Tests override it to exercise expiry
// deterministically instead of sleeping in real time.
type Clock func() time.Time

// Option configures a Box at construction time.
type Option func(*Box)

// WithLogger overrides the box's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Box) {
		b.logger = l
	}
}

// WithClock overrides the box's time source. Intended for tests.
func WithClock(c Clock) Option {
	return func(b *Box) {
		b.now = c
	}
}

// Box is the per-snapshot-slot ballot box. Its voter_list and threshold are
// frozen at creation and never change for the box's lifetime.
type Box struct {
	SnapshotSlot             uint64
	CreatedAt                time.Time
	VoteExpiryTimestamp      time.Time
	MinConsensusThresholdBps uint16
	VoterList                []identity.Identity

	votes         map[identity.Identity]int // operator -> index into ballotTallies
	ballotTallies []BallotTally
	winningBallot *Ballot
	tieBreaker    bool
	isFinalized   bool

	now    Clock
	logger zerolog.Logger
}

// NewBox creates a ballot box for snapshotSlot, freezing voterList and bps
// from the caller's already-fetched config snapshot. Callers are
// responsible for running the external-caller gate and the
// snapshotSlot > currentSlot check before calling NewBox (see the root
// package), since those concerns live outside this state machine.
func NewBox(snapshotSlot uint64, voterList []identity.Identity, minConsensusThresholdBps uint16, voteDuration time.Duration, opts ...Option) *Box {
	b := &Box{
		SnapshotSlot:             snapshotSlot,
		MinConsensusThresholdBps: minConsensusThresholdBps,
		VoterList:                append([]identity.Identity(nil), voterList...),
		votes:                    make(map[identity.Identity]int),
		now:                      time.Now,
		logger:                   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.CreatedAt = b.now()
	b.VoteExpiryTimestamp = b.CreatedAt.Add(voteDuration)
	return b
}

// WinningBallot returns the ballot that has reached consensus or been set
// by a tie-break, and whether one has been set.
func (b *Box) WinningBallot() (Ballot, bool) {
	if b.winningBallot == nil {
		return Ballot{}, false
	}
	return *b.winningBallot, true
}

// TieBreakerConsensus reports whether the winning ballot was sealed by the
// tie-break escape hatch rather than threshold consensus.
func (b *Box) TieBreakerConsensus() bool {
	return b.tieBreaker
}

// IsFinalized reports whether FinalizeBallot has already minted a result
// for this box.
func (b *Box) IsFinalized() bool {
	return b.isFinalized
}

// BallotTallies returns a copy of the current distinct-ballot tallies, in
// insertion order.
func (b *Box) BallotTallies() []BallotTally {
	return append([]BallotTally(nil), b.ballotTallies...)
}

func (b *Box) isWhitelisted(operator identity.Identity) bool {
	for _, v := range b.VoterList {
		if v == operator {
			return true
		}
	}
	return false
}

func (b *Box) threshold() int {
	n := len(b.VoterList)
	return (n*int(b.MinConsensusThresholdBps) + 9999) / 10000
}

// CastVote records operator's vote for ballot, transferring it from any
// ballot the operator previously voted for. It recomputes the winning
// ballot after every cast, since a vote may cross the consensus threshold.
func (b *Box) CastVote(operator identity.Identity, ballot Ballot) error {
	if !b.isWhitelisted(operator) {
		return ErrNotWhitelisted
	}
	if b.isFinalized {
		return ErrAlreadyFinalized
	}
	if b.now().After(b.VoteExpiryTimestamp) {
		return ErrVotingExpired
	}

	idx := b.tallyIndex(ballot)
	if idx == -1 {
		if len(b.ballotTallies) >= MaxBallotTallies {
			return ErrBallotSpaceExhausted
		}
		b.ballotTallies = append(b.ballotTallies, BallotTally{Ballot: ballot})
		idx = len(b.ballotTallies) - 1
	}

	if prevIdx, voted := b.votes[operator]; voted {
		if prevIdx == idx {
			// same ballot recast: idempotent, no tally movement.
			b.recomputeWinner()
			return nil
		}
		b.ballotTallies[prevIdx].Tally--
	}
	b.ballotTallies[idx].Tally++
	b.votes[operator] = idx

	b.recomputeWinner()
	b.logger.Info().
		Str("operator", operator.String()).
		Int("tally", b.ballotTallies[idx].Tally).
		Msg("vote cast")
	return nil
}

// RemoveVote clears operator's vote, decrementing its ballot's tally.
func (b *Box) RemoveVote(operator identity.Identity) error {
	if b.winningBallot != nil {
		return ErrConsensusAlreadyReached
	}
	if b.now().After(b.VoteExpiryTimestamp) {
		return ErrVotingExpired
	}
	idx, voted := b.votes[operator]
	if !voted {
		return ErrNoVoteToRemove
	}

	b.ballotTallies[idx].Tally--
	delete(b.votes, operator)
	b.logger.Info().Str("operator", operator.String()).Msg("vote removed")
	return nil
}

// FinalizeBallot seals the box once a winning ballot is set, returning it
// (and the tie-break flag) for the caller to mint a ConsensusResult.
// Permissionless and idempotent: a second call fails with
// ErrAlreadyFinalized.
func (b *Box) FinalizeBallot() (Ballot, bool, error) {
	if b.isFinalized {
		return Ballot{}, false, ErrAlreadyFinalized
	}
	if b.winningBallot == nil {
		return Ballot{}, false, ErrConsensusNotReached
	}
	b.isFinalized = true
	b.logger.Info().Msg("ballot finalized")
	return *b.winningBallot, b.tieBreaker, nil
}

// SetTieBreaker lets the tie-break admin seal a ballot that has failed to
// reach consensus by expiry. caller must equal admin (the registry's
// current tie_breaker_admin, supplied by the root caller).
func (b *Box) SetTieBreaker(caller, admin identity.Identity, ballot Ballot) error {
	if caller != admin {
		return ErrUnauthorized
	}
	if b.winningBallot != nil {
		return ErrConsensusAlreadyReached
	}
	if !b.now().After(b.VoteExpiryTimestamp) {
		return ErrVotingNotExpired
	}

	w := ballot
	b.winningBallot = &w
	b.tieBreaker = true
	b.logger.Warn().Msg("ballot sealed by tie-breaker")
	return nil
}

// Reset clears votes and tallies so voting can resume in the same box. Only
// permitted while unset, unexpired, and with a fully-exhausted tally table
// — the sole escape hatch from a spam-flooded box.
func (b *Box) Reset(caller, admin identity.Identity) error {
	if caller != admin {
		return ErrUnauthorized
	}
	if b.winningBallot != nil {
		return ErrResetPreconditionsUnmet
	}
	if b.now().After(b.VoteExpiryTimestamp) {
		return ErrResetPreconditionsUnmet
	}
	if len(b.ballotTallies) != MaxBallotTallies {
		return ErrResetPreconditionsUnmet
	}

	b.votes = make(map[identity.Identity]int)
	b.ballotTallies = nil
	b.logger.Warn().Msg("ballot box reset")
	return nil
}

func (b *Box) tallyIndex(ballot Ballot) int {
	for i, bt := range b.ballotTallies {
		if bt.Ballot.Equal(ballot) {
			return i
		}
	}
	return -1
}

func (b *Box) recomputeWinner() {
	if b.winningBallot != nil {
		return
	}
	threshold := b.threshold()
	for i := range b.ballotTallies {
		if b.ballotTallies[i].Tally >= threshold {
			w := b.ballotTallies[i].Ballot
			b.winningBallot = &w
			return
		}
	}
}
