package gate_test

import (
	"testing"

	"github.com/cmwaters/vsnap/gate"
	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/identity/identitytest"
	"github.com/stretchr/testify/require"
)

func TestRejectsNonCPICall(t *testing.T) {
	orchestrator := identitytest.New()
	g := gate.New(orchestrator)

	err := g.Check(gate.CallContext{IsCPI: false}, 1)
	require.ErrorIs(t, err, gate.ErrNotCrossProgramCall)
}

func TestRejectsWrongOrchestrator(t *testing.T) {
	orchestrator := identitytest.New()
	g := gate.New(orchestrator)

	err := g.Check(gate.CallContext{
		IsCPI:           true,
		CallerProgram:   identitytest.New(),
		ProposalAccount: identitytest.New(),
	}, 1)
	require.ErrorIs(t, err, gate.ErrUnexpectedOrchestrator)
}

func TestAcceptsExpectedOrchestrator(t *testing.T) {
	orchestrator := identitytest.New()
	g := gate.New(orchestrator)

	var seed [8]byte
	seed[0] = 7
	proposal := identity.DerivePDA(orchestrator[:], seed[:])

	err := g.Check(gate.CallContext{
		IsCPI:           true,
		CallerProgram:   orchestrator,
		ProposalAccount: proposal,
	}, 7)
	require.NoError(t, err)
}

func TestTestModeBypassesChecks(t *testing.T) {
	g := gate.New(identitytest.New(), gate.WithTestMode())
	err := g.Check(gate.CallContext{}, 1)
	require.NoError(t, err)
}
