package vsnap

import (
	"sync"
	"time"

	"github.com/cmwaters/vsnap/ballot"
	"github.com/cmwaters/vsnap/config"
	"github.com/cmwaters/vsnap/gate"
	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/merkle"
	"github.com/cmwaters/vsnap/result"
	"github.com/cmwaters/vsnap/snapshot"
	"github.com/cmwaters/vsnap/verify"
	"github.com/rs/zerolog"
)

// Option configures a Program at construction time.
type Option func(*Program)

// WithLogger overrides the program's logger and propagates it to every
// sub-component.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Program) {
		p.logger = l
	}
}

// WithTestGate disables the external-caller gate's CPI check, for local
// integration testing.
func WithTestGate() Option {
	return func(p *Program) {
		p.gateOpts = append(p.gateOpts, gate.WithTestMode())
	}
}

// WithBallotClock overrides the clock new ballot boxes are constructed
// with. Intended for tests.
func WithBallotClock(c ballot.Clock) Option {
	return func(p *Program) {
		p.ballotClock = c
	}
}

// Program wires the configuration registry, the ballot boxes, the result
// store and the external-caller gate into the single instruction surface an
// on-chain caller sees. It holds no persistence of its own beyond the
// in-memory stores each sub-component owns; this mirrors the teacher's
// top-level Engine, which composes its state machine, store and signer but
// owns no storage layer itself.
type Program struct {
	orchestrator identity.Identity

	config  *config.Registry
	gate    *gate.Gate
	results *result.Store

	mtx   sync.Mutex
	boxes map[uint64]*ballot.Box

	gateOpts    []gate.Option
	ballotClock ballot.Clock

	logger zerolog.Logger
}

// New constructs a Program gated by the given orchestrator program
// identity.
func New(orchestrator identity.Identity, opts ...Option) *Program {
	p := &Program{
		orchestrator: orchestrator,
		boxes:        make(map[uint64]*ballot.Box),
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.config = config.NewRegistry(config.WithLogger(p.logger))
	p.results = result.NewStore(result.WithLogger(p.logger))
	p.gate = gate.New(orchestrator, p.gateOpts...)
	return p
}

// InitProgramConfig creates the singleton configuration with caller as
// authority.
func (p *Program) InitProgramConfig(authority identity.Identity) (config.ProgramConfig, error) {
	return p.config.Init(authority)
}

// UpdateProgramConfig mutates the authority-controlled config fields.
func (p *Program) UpdateProgramConfig(caller identity.Identity, bps *uint16, voteDuration *time.Duration, tieBreakerAdmin, proposedAuthority *identity.Identity) (config.ProgramConfig, error) {
	return p.config.Update(caller, bps, voteDuration, tieBreakerAdmin, proposedAuthority)
}

// FinalizeProposedAuthority promotes the proposed authority.
func (p *Program) FinalizeProposedAuthority(caller identity.Identity) (config.ProgramConfig, error) {
	return p.config.FinalizeProposedAuthority(caller)
}

// UpdateOperatorWhitelist adds and/or removes whitelisted operators.
func (p *Program) UpdateOperatorWhitelist(caller identity.Identity, add, remove []identity.Identity) (config.ProgramConfig, error) {
	return p.config.UpdateOperatorWhitelist(caller, add, remove)
}

// InitBallotBox creates a ballot box for snapshotSlot, running the
// external-caller gate and freezing the current whitelist/threshold into
// the new box.
func (p *Program) InitBallotBox(callCtx gate.CallContext, snapshotSlot, currentSlot uint64) (*ballot.Box, error) {
	if err := p.gate.Check(callCtx, snapshotSlot); err != nil {
		return nil, err
	}
	if snapshotSlot <= currentSlot {
		return nil, ballot.ErrSnapshotSlotInPast
	}

	cfg, err := p.config.Snapshot()
	if err != nil {
		return nil, err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()
	if _, exists := p.boxes[snapshotSlot]; exists {
		return nil, ErrBallotBoxAlreadyExists
	}

	var opts []ballot.Option
	opts = append(opts, ballot.WithLogger(p.logger))
	if p.ballotClock != nil {
		opts = append(opts, ballot.WithClock(p.ballotClock))
	}

	box := ballot.NewBox(snapshotSlot, cfg.WhitelistedOperators, cfg.MinConsensusThresholdBps, cfg.VoteDuration, opts...)
	p.boxes[snapshotSlot] = box
	p.logger.Info().Uint64("snapshot_slot", snapshotSlot).Msg("ballot box created")
	return box, nil
}

// BallotBox returns the box for snapshotSlot, if any.
func (p *Program) BallotBox(snapshotSlot uint64) (*ballot.Box, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	box, ok := p.boxes[snapshotSlot]
	return box, ok
}

func (p *Program) mustBox(snapshotSlot uint64) (*ballot.Box, error) {
	box, ok := p.BallotBox(snapshotSlot)
	if !ok {
		return nil, ErrBallotBoxNotFound
	}
	return box, nil
}

// CastVote records operator's vote on the box for snapshotSlot.
func (p *Program) CastVote(snapshotSlot uint64, operator identity.Identity, b ballot.Ballot) error {
	box, err := p.mustBox(snapshotSlot)
	if err != nil {
		return err
	}
	return box.CastVote(operator, b)
}

// RemoveVote clears operator's vote on the box for snapshotSlot.
func (p *Program) RemoveVote(snapshotSlot uint64, operator identity.Identity) error {
	box, err := p.mustBox(snapshotSlot)
	if err != nil {
		return err
	}
	return box.RemoveVote(operator)
}

// FinalizeBallot seals the box for snapshotSlot and mints its
// ConsensusResult.
func (p *Program) FinalizeBallot(snapshotSlot uint64) (*result.ConsensusResult, error) {
	box, err := p.mustBox(snapshotSlot)
	if err != nil {
		return nil, err
	}

	winner, tieBreaker, err := box.FinalizeBallot()
	if err != nil {
		return nil, err
	}
	return p.results.CreateConsensusResult(snapshotSlot, winner, tieBreaker, time.Now())
}

// SetTieBreaker lets the current tie-breaker admin seal an expired,
// unresolved box.
func (p *Program) SetTieBreaker(snapshotSlot uint64, caller identity.Identity, b ballot.Ballot) error {
	box, err := p.mustBox(snapshotSlot)
	if err != nil {
		return err
	}
	cfg, err := p.config.Snapshot()
	if err != nil {
		return err
	}
	return box.SetTieBreaker(caller, cfg.TieBreakerAdmin, b)
}

// ResetBallotBox lets the current tie-breaker admin clear a spam-flooded,
// unresolved box.
func (p *Program) ResetBallotBox(snapshotSlot uint64, caller identity.Identity) error {
	box, err := p.mustBox(snapshotSlot)
	if err != nil {
		return err
	}
	cfg, err := p.config.Snapshot()
	if err != nil {
		return err
	}
	return box.Reset(caller, cfg.TieBreakerAdmin)
}

// InitMetaMerkleProof creates a validator's proof envelope against the
// ConsensusResult for snapshotSlot.
func (p *Program) InitMetaMerkleProof(caller identity.Identity, snapshotSlot uint64, leaf snapshot.MetaMerkleLeaf, proof []merkle.Hash32, expiry time.Time) (*result.MetaMerkleProof, error) {
	return p.results.InitMetaMerkleProof(caller, snapshotSlot, leaf, proof, expiry)
}

// CloseMetaMerkleProof closes a previously-created proof envelope.
func (p *Program) CloseMetaMerkleProof(caller identity.Identity, snapshotSlot uint64, voteAccount identity.Identity, now time.Time) error {
	return p.results.CloseMetaMerkleProof(caller, snapshotSlot, voteAccount, now)
}

// VerifyVoteAccount answers whether proof's leaf is included in the
// snapshot committed by the ConsensusResult at snapshotSlot.
func (p *Program) VerifyVoteAccount(snapshotSlot uint64, voteAccount identity.Identity) (verify.VoteAccountClaim, error) {
	res, ok := p.results.GetConsensusResult(snapshotSlot)
	if !ok {
		return verify.VoteAccountClaim{}, ErrConsensusResultNotFound
	}
	proof, ok := p.results.GetMetaMerkleProof(snapshotSlot, voteAccount)
	if !ok {
		return verify.VoteAccountClaim{}, ErrMetaMerkleProofNotFound
	}
	return verify.VoteAccount(res, proof)
}

// VerifyStakeAccount answers whether stakeLeaf is included in the
// vote account's stake-merkle tier, given its own proof path.
func (p *Program) VerifyStakeAccount(snapshotSlot uint64, voteAccount identity.Identity, stakeLeaf snapshot.StakeMerkleLeaf, stakeProof []merkle.Hash32) (verify.StakeAccountClaim, error) {
	res, ok := p.results.GetConsensusResult(snapshotSlot)
	if !ok {
		return verify.StakeAccountClaim{}, ErrConsensusResultNotFound
	}
	proof, ok := p.results.GetMetaMerkleProof(snapshotSlot, voteAccount)
	if !ok {
		return verify.StakeAccountClaim{}, ErrMetaMerkleProofNotFound
	}
	return verify.StakeAccount(res, proof, stakeLeaf, stakeProof)
}
