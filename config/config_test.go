package config_test

import (
	"testing"
	"time"

	"github.com/cmwaters/vsnap/config"
	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/identity/identitytest"
	"github.com/stretchr/testify/require"
)

func TestInitSetsAuthorityAndDefaults(t *testing.T) {
	authority := identitytest.New()
	r := config.NewRegistry()

	cfg, err := r.Init(authority)
	require.NoError(t, err)
	require.Equal(t, authority, cfg.Authority)
	require.Equal(t, authority, cfg.TieBreakerAdmin)
	require.Empty(t, cfg.WhitelistedOperators)
	require.Zero(t, cfg.MinConsensusThresholdBps)
}

func TestInitTwiceFails(t *testing.T) {
	r := config.NewRegistry()
	_, err := r.Init(identitytest.New())
	require.NoError(t, err)

	_, err = r.Init(identitytest.New())
	require.ErrorIs(t, err, config.ErrAlreadyExists)
}

func TestUpdateRejectsNonAuthority(t *testing.T) {
	r := config.NewRegistry()
	authority := identitytest.New()
	_, err := r.Init(authority)
	require.NoError(t, err)

	bps := uint16(5000)
	_, err = r.Update(identitytest.New(), &bps, nil, nil, nil)
	require.ErrorIs(t, err, config.ErrUnauthorized)
}

func TestUpdateRejectsOverThresholdAndBadDuration(t *testing.T) {
	r := config.NewRegistry()
	authority := identitytest.New()
	_, err := r.Init(authority)
	require.NoError(t, err)

	tooHigh := uint16(10001)
	_, err = r.Update(authority, &tooHigh, nil, nil, nil)
	require.ErrorIs(t, err, config.ErrInvalidThreshold)

	badDuration := -time.Second
	_, err = r.Update(authority, nil, &badDuration, nil, nil)
	require.ErrorIs(t, err, config.ErrInvalidDuration)
}

func TestTwoPhaseAuthorityHandover(t *testing.T) {
	r := config.NewRegistry()
	authority := identitytest.New()
	newAuthority := identitytest.New()
	_, err := r.Init(authority)
	require.NoError(t, err)

	_, err = r.FinalizeProposedAuthority(newAuthority)
	require.ErrorIs(t, err, config.ErrNoProposal)

	_, err = r.Update(authority, nil, nil, nil, &newAuthority)
	require.NoError(t, err)

	// old authority can no longer finalize; only the proposed one can.
	_, err = r.FinalizeProposedAuthority(authority)
	require.ErrorIs(t, err, config.ErrUnauthorized)

	cfg, err := r.FinalizeProposedAuthority(newAuthority)
	require.NoError(t, err)
	require.Equal(t, newAuthority, cfg.Authority)
	require.True(t, cfg.ProposedAuthority.IsZero())
}

func TestWhitelistAddRemoveAndBounds(t *testing.T) {
	r := config.NewRegistry()
	authority := identitytest.New()
	_, err := r.Init(authority)
	require.NoError(t, err)

	op1, op2 := identitytest.New(), identitytest.New()
	cfg, err := r.UpdateOperatorWhitelist(authority, []identity.Identity{op1, op2}, nil)
	require.NoError(t, err)
	require.Len(t, cfg.WhitelistedOperators, 2)

	_, err = r.UpdateOperatorWhitelist(authority, []identity.Identity{op1}, nil)
	require.ErrorIs(t, err, config.ErrDuplicateOperator)

	cfg, err = r.UpdateOperatorWhitelist(authority, nil, []identity.Identity{op1})
	require.NoError(t, err)
	require.Len(t, cfg.WhitelistedOperators, 1)
	require.False(t, cfg.IsWhitelisted(op1))
	require.True(t, cfg.IsWhitelisted(op2))

	// removing an absent operator is a silent no-op.
	cfg, err = r.UpdateOperatorWhitelist(authority, nil, []identity.Identity{op1})
	require.NoError(t, err)
	require.Len(t, cfg.WhitelistedOperators, 1)
}

func TestWhitelistFull(t *testing.T) {
	r := config.NewRegistry()
	authority := identitytest.New()
	_, err := r.Init(authority)
	require.NoError(t, err)

	ids := identitytest.NewN(config.MaxWhitelistSize)
	_, err = r.UpdateOperatorWhitelist(authority, ids, nil)
	require.NoError(t, err)

	_, err = r.UpdateOperatorWhitelist(authority, []identity.Identity{identitytest.New()}, nil)
	require.ErrorIs(t, err, config.ErrWhitelistFull)
}
