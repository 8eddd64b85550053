package config

import "errors"

var (
	// ErrAlreadyExists is returned by Init when the singleton config has
	// already been created.
	ErrAlreadyExists = errors.New("config: program config already exists")
	// ErrNotInitialized is returned when an operation is attempted before
	// Init has been called.
	ErrNotInitialized = errors.New("config: program config not initialized")
	// ErrUnauthorized is returned when the caller is not the authority (or
	// proposed authority, for the promotion step).
	ErrUnauthorized = errors.New("config: caller is not authorized")
	// ErrInvalidThreshold is returned when a proposed bps exceeds
	// MaxThresholdBps.
	ErrInvalidThreshold = errors.New("config: threshold exceeds 10000 bps")
	// ErrInvalidDuration is returned when a proposed vote duration is not
	// strictly positive.
	ErrInvalidDuration = errors.New("config: vote duration must be positive")
	// ErrNoProposal is returned by FinalizeProposedAuthority when no
	// authority handover is pending.
	ErrNoProposal = errors.New("config: no proposed authority pending")
	// ErrWhitelistFull is returned when an addition would exceed
	// MaxWhitelistSize.
	ErrWhitelistFull = errors.New("config: operator whitelist is full")
	// ErrDuplicateOperator is returned when an addition names an operator
	// already on the whitelist.
	ErrDuplicateOperator = errors.New("config: operator already whitelisted")
)
