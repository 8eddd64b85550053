// Package gate implements the external-caller gate: it authenticates that
// ballot-box creation originated from the designated orchestrator program,
// with a test-mode switch for local integration testing.
package gate

import (
	"encoding/binary"

	"github.com/cmwaters/vsnap/identity"
)

// CallContext describes the invocation a gate check is run against.
type CallContext struct {
	// IsCPI is true when the call arrived as a cross-program invocation
	// rather than a top-level user transaction.
	IsCPI bool
	// CallerProgram is the identity of the program that issued the CPI.
	CallerProgram identity.Identity
	// ProposalAccount is the account the caller presents as its own PDA.
	ProposalAccount identity.Identity
}

// Option configures a Gate.
type Option func(*Gate)

// WithTestMode disables the CPI origin check, allowing direct invocation
// with an arbitrary signer. Intended for local integration testing only.
func WithTestMode() Option {
	return func(g *Gate) {
		g.testMode = true
	}
}

// Gate authenticates that init_ballot_box was invoked by the expected
// orchestrator program.
type Gate struct {
	expectedOrchestrator identity.Identity
	testMode             bool
}

// New constructs a Gate that only admits CPIs from expectedOrchestrator.
func New(expectedOrchestrator identity.Identity, opts ...Option) *Gate {
	g := &Gate{expectedOrchestrator: expectedOrchestrator}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check verifies ctx against the gate's rules for the given snapshotSlot.
// In production mode it requires the call to be a CPI and the proposal
// account to be the orchestrator's PDA for that slot. In test mode it
// always succeeds.
func (g *Gate) Check(ctx CallContext, snapshotSlot uint64) error {
	if g.testMode {
		return nil
	}
	if !ctx.IsCPI {
		return ErrNotCrossProgramCall
	}
	if ctx.CallerProgram != g.expectedOrchestrator {
		return ErrUnexpectedOrchestrator
	}

	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], snapshotSlot)
	expectedProposal := identity.DerivePDA(g.expectedOrchestrator[:], seed[:])
	if ctx.ProposalAccount != expectedProposal {
		return ErrUnexpectedOrchestrator
	}
	return nil
}
