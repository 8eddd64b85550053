// Package result implements the post-consensus commitment objects:
// ConsensusResult (the minimal immutable sealing of a ballot box) and
// MetaMerkleProof (a per-validator proof envelope with an expiry-bounded
// lifecycle).
package result

import (
	"sync"
	"time"

	"github.com/cmwaters/vsnap/ballot"
	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/merkle"
	"github.com/cmwaters/vsnap/snapshot"
	"github.com/rs/zerolog"
)

// ConsensusResult is the minimal, immutable commitment minted once a ballot
// box's winning ballot is finalized. Kept deliberately small: its storage
// footprint, and the compute cost of consuming it via cross-program calls,
// scale with account size.
type ConsensusResult struct {
	SnapshotSlot        uint64
	MetaMerkleRoot      merkle.Hash32
	SnapshotHash        merkle.Hash32
	TieBreakerConsensus bool
	FinalizedAt         time.Time
}

// MetaMerkleProof carries one validator's top-tier leaf together with its
// proof path against a ConsensusResult's meta_merkle_root.
type MetaMerkleProof struct {
	SnapshotSlot uint64
	Leaf         snapshot.MetaMerkleLeaf
	Proof        []merkle.Hash32
	Creator      identity.Identity
	Expiry       time.Time
}

// Store holds ConsensusResults and MetaMerkleProofs keyed the way their PDAs
// would be, enforcing the chain's one-insert-per-seed uniqueness in memory.
type Store struct {
	mtx     sync.Mutex
	results map[uint64]*ConsensusResult
	proofs  map[identity.Identity]*MetaMerkleProof // keyed by the proof's derived PDA

	logger zerolog.Logger
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger overrides the store's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore constructs an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		results: make(map[uint64]*ConsensusResult),
		proofs:  make(map[identity.Identity]*MetaMerkleProof),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateConsensusResult mints the ConsensusResult for a finalized box. box
// must already have a winning ballot (callers run ballot.Box.FinalizeBallot
// first); this enforces the PDA-uniqueness half of finalize_ballot's
// idempotence.
func (s *Store) CreateConsensusResult(snapshotSlot uint64, winner ballot.Ballot, tieBreaker bool, finalizedAt time.Time) (*ConsensusResult, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.results[snapshotSlot]; exists {
		return nil, ErrAlreadyFinalized
	}

	cr := &ConsensusResult{
		SnapshotSlot:        snapshotSlot,
		MetaMerkleRoot:      winner.MetaMerkleRoot,
		SnapshotHash:        winner.SnapshotHash,
		TieBreakerConsensus: tieBreaker,
		FinalizedAt:         finalizedAt,
	}
	s.results[snapshotSlot] = cr
	s.logger.Info().Uint64("snapshot_slot", snapshotSlot).Msg("consensus result minted")
	return cr, nil
}

// GetConsensusResult returns the result for snapshotSlot, if any.
func (s *Store) GetConsensusResult(snapshotSlot uint64) (*ConsensusResult, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	cr, ok := s.results[snapshotSlot]
	return cr, ok
}

// ProofPDA derives the deterministic address a MetaMerkleProof for
// (snapshotSlot, voteAccount) would live at.
func ProofPDA(snapshotSlot uint64, voteAccount identity.Identity) identity.Identity {
	var seed [8]byte
	for i := 0; i < 8; i++ {
		seed[i] = byte(snapshotSlot >> (8 * i))
	}
	return identity.DerivePDA([]byte("meta_merkle_proof"), seed[:], voteAccount[:])
}

// InitMetaMerkleProof creates a validator's proof envelope, reused by all
// subsequent verifications for that validator and snapshot slot.
func (s *Store) InitMetaMerkleProof(creator identity.Identity, snapshotSlot uint64, leaf snapshot.MetaMerkleLeaf, proof []merkle.Hash32, expiry time.Time) (*MetaMerkleProof, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	pda := ProofPDA(snapshotSlot, leaf.VoteAccount)
	if _, exists := s.proofs[pda]; exists {
		return nil, ErrAlreadyExists
	}

	mp := &MetaMerkleProof{
		SnapshotSlot: snapshotSlot,
		Leaf:         leaf,
		Proof:        append([]merkle.Hash32(nil), proof...),
		Creator:      creator,
		Expiry:       expiry,
	}
	s.proofs[pda] = mp
	s.logger.Info().Str("vote_account", leaf.VoteAccount.String()).Msg("meta merkle proof initialized")
	return mp, nil
}

// GetMetaMerkleProof returns the proof for (snapshotSlot, voteAccount), if
// any.
func (s *Store) GetMetaMerkleProof(snapshotSlot uint64, voteAccount identity.Identity) (*MetaMerkleProof, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	mp, ok := s.proofs[ProofPDA(snapshotSlot, voteAccount)]
	return mp, ok
}

// CloseMetaMerkleProof removes a proof envelope. Permitted for its creator
// at any time, or for anyone once now is past its expiry.
func (s *Store) CloseMetaMerkleProof(caller identity.Identity, snapshotSlot uint64, voteAccount identity.Identity, now time.Time) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	pda := ProofPDA(snapshotSlot, voteAccount)
	mp, ok := s.proofs[pda]
	if !ok {
		return ErrNotFound
	}
	if caller != mp.Creator && !now.After(mp.Expiry) {
		return ErrNotProofCreator
	}

	delete(s.proofs, pda)
	s.logger.Info().Str("vote_account", voteAccount.String()).Msg("meta merkle proof closed")
	return nil
}
