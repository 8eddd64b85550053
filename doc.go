// Package vsnap implements the Voter Snapshot Consensus Engine: a bounded
// whitelist of operators converges on a single commitment to a two-tier
// validator/stake snapshot via threshold-consensus ballot voting, and third
// parties later prove inclusion of individual stake or vote accounts
// against that commitment.
//
// The engine is split across sub-packages, each owning one concern:
// identity (shared address type), merkle (C1 primitives), snapshot (C2
// data model and codec), config (C3 configuration registry), ballot (C4
// ballot box state machine), result (C5 consensus result and proof
// lifecycle), verify (C6 verification entrypoint) and gate (C7
// external-caller authentication). Program, defined in vsnap.go, wires them
// into the single on-chain instruction surface a real caller would see.
package vsnap
