// Package config implements the program configuration registry: the
// singleton holding authority, the operator whitelist, and consensus
// thresholds, mutated only through its two-phase authority handover and
// bounded whitelist operations.
package config

import (
	"sync"
	"time"

	"github.com/cmwaters/vsnap/identity"
	"github.com/rs/zerolog"
)

// MaxWhitelistSize bounds the number of whitelisted operators.
const MaxWhitelistSize = 64

// MaxThresholdBps is the upper bound on min_consensus_threshold_bps.
const MaxThresholdBps = 10000

// ProgramConfig is the singleton configuration record.
type ProgramConfig struct {
	Authority                identity.Identity
	ProposedAuthority        identity.Identity // zero means unset
	TieBreakerAdmin          identity.Identity
	MinConsensusThresholdBps uint16
	VoteDuration             time.Duration
	WhitelistedOperators     []identity.Identity
}

// IsWhitelisted reports whether id is a whitelisted operator.
func (c ProgramConfig) IsWhitelisted(id identity.Identity) bool {
	for _, op := range c.WhitelistedOperators {
		if op == id {
			return true
		}
	}
	return false
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger overrides the registry's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// Registry holds and mutates the singleton ProgramConfig under a mutex,
// standing in for the on-chain PDA-addressed config account.
type Registry struct {
	mtx    sync.Mutex
	cfg    *ProgramConfig
	logger zerolog.Logger
}

// NewRegistry constructs an empty, uninitialized Registry. Init must be
// called before any other operation succeeds.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init creates the singleton config with the caller as authority, an empty
// whitelist, zero threshold and zero duration. Fails if already created.
func (r *Registry) Init(authority identity.Identity) (ProgramConfig, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.cfg != nil {
		return ProgramConfig{}, ErrAlreadyExists
	}

	r.cfg = &ProgramConfig{
		Authority:       authority,
		TieBreakerAdmin: authority,
	}
	r.logger.Info().Str("authority", authority.String()).Msg("program config initialized")
	return *r.cfg, nil
}

// Update mutates the config's authority-controlled fields. Each pointer
// argument is applied only if non-nil.
func (r *Registry) Update(caller identity.Identity, bps *uint16, voteDuration *time.Duration, tieBreakerAdmin, proposedAuthority *identity.Identity) (ProgramConfig, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.cfg == nil {
		return ProgramConfig{}, ErrNotInitialized
	}
	if caller != r.cfg.Authority {
		return ProgramConfig{}, ErrUnauthorized
	}

	if bps != nil && *bps > MaxThresholdBps {
		return ProgramConfig{}, ErrInvalidThreshold
	}
	if voteDuration != nil && *voteDuration <= 0 {
		return ProgramConfig{}, ErrInvalidDuration
	}

	if bps != nil {
		r.cfg.MinConsensusThresholdBps = *bps
	}
	if voteDuration != nil {
		r.cfg.VoteDuration = *voteDuration
	}
	if tieBreakerAdmin != nil {
		r.cfg.TieBreakerAdmin = *tieBreakerAdmin
	}
	if proposedAuthority != nil {
		r.cfg.ProposedAuthority = *proposedAuthority
	}

	r.logger.Info().Msg("program config updated")
	return *r.cfg, nil
}

// FinalizeProposedAuthority promotes the proposed authority to authority and
// clears the proposal. Must be called by the proposed authority itself.
func (r *Registry) FinalizeProposedAuthority(caller identity.Identity) (ProgramConfig, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.cfg == nil {
		return ProgramConfig{}, ErrNotInitialized
	}
	if r.cfg.ProposedAuthority.IsZero() {
		return ProgramConfig{}, ErrNoProposal
	}
	if caller != r.cfg.ProposedAuthority {
		return ProgramConfig{}, ErrUnauthorized
	}

	old := r.cfg.Authority
	r.cfg.Authority = r.cfg.ProposedAuthority
	r.cfg.ProposedAuthority = identity.Zero

	r.logger.Info().
		Str("old_authority", old.String()).
		Str("new_authority", r.cfg.Authority.String()).
		Msg("authority handover finalized")
	return *r.cfg, nil
}

// UpdateOperatorWhitelist adds and/or removes operators. Additions fail on
// duplicate; removals silently no-op on an absent operator. The resulting
// whitelist must not exceed MaxWhitelistSize.
func (r *Registry) UpdateOperatorWhitelist(caller identity.Identity, add, remove []identity.Identity) (ProgramConfig, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.cfg == nil {
		return ProgramConfig{}, ErrNotInitialized
	}
	if caller != r.cfg.Authority {
		return ProgramConfig{}, ErrUnauthorized
	}

	next := make([]identity.Identity, 0, len(r.cfg.WhitelistedOperators))
	removeSet := make(map[identity.Identity]bool, len(remove))
	for _, id := range remove {
		removeSet[id] = true
	}
	for _, id := range r.cfg.WhitelistedOperators {
		if !removeSet[id] {
			next = append(next, id)
		}
	}

	existing := make(map[identity.Identity]bool, len(next))
	for _, id := range next {
		existing[id] = true
	}
	for _, id := range add {
		if existing[id] {
			return ProgramConfig{}, ErrDuplicateOperator
		}
		if len(next) >= MaxWhitelistSize {
			return ProgramConfig{}, ErrWhitelistFull
		}
		next = append(next, id)
		existing[id] = true
	}

	r.cfg.WhitelistedOperators = next
	r.logger.Info().Int("whitelist_size", len(next)).Msg("operator whitelist updated")
	return *r.cfg, nil
}

// Snapshot returns a read-only copy of the current config, used by callers
// (notably the root package when it creates a ballot box) that need to
// freeze its values at a point in time.
func (r *Registry) Snapshot() (ProgramConfig, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.cfg == nil {
		return ProgramConfig{}, ErrNotInitialized
	}
	cfg := *r.cfg
	cfg.WhitelistedOperators = append([]identity.Identity(nil), r.cfg.WhitelistedOperators...)
	return cfg, nil
}
