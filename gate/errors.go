package gate

import "errors"

var (
	// ErrNotCrossProgramCall is returned when init_ballot_box is invoked as
	// a top-level user transaction instead of a CPI.
	ErrNotCrossProgramCall = errors.New("gate: call did not originate from a cross-program invocation")
	// ErrUnexpectedOrchestrator is returned when the CPI's caller program or
	// proposal account does not match the expected orchestrator.
	ErrUnexpectedOrchestrator = errors.New("gate: caller is not the expected orchestrator")
)
