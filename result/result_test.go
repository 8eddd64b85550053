package result_test

import (
	"testing"
	"time"

	"github.com/cmwaters/vsnap/ballot"
	"github.com/cmwaters/vsnap/identity/identitytest"
	"github.com/cmwaters/vsnap/result"
	"github.com/cmwaters/vsnap/snapshot"
	"github.com/stretchr/testify/require"
)

func TestCreateConsensusResultOnce(t *testing.T) {
	s := result.NewStore()
	winner := ballot.Ballot{}
	winner.MetaMerkleRoot[0] = 1

	cr, err := s.CreateConsensusResult(1, winner, false, time.Now())
	require.NoError(t, err)
	require.Equal(t, winner.MetaMerkleRoot, cr.MetaMerkleRoot)

	_, err = s.CreateConsensusResult(1, winner, false, time.Now())
	require.ErrorIs(t, err, result.ErrAlreadyFinalized)
}

func TestMetaMerkleProofLifecycle(t *testing.T) {
	s := result.NewStore()
	creator := identitytest.New()
	leaf := snapshot.MetaMerkleLeaf{VoteAccount: identitytest.New()}
	now := time.Now()
	expiry := now.Add(time.Hour)

	mp, err := s.InitMetaMerkleProof(creator, 1, leaf, nil, expiry)
	require.NoError(t, err)
	require.Equal(t, leaf.VoteAccount, mp.Leaf.VoteAccount)

	_, err = s.InitMetaMerkleProof(creator, 1, leaf, nil, expiry)
	require.ErrorIs(t, err, result.ErrAlreadyExists)

	other := identitytest.New()
	err = s.CloseMetaMerkleProof(other, 1, leaf.VoteAccount, now)
	require.ErrorIs(t, err, result.ErrNotProofCreator)

	require.NoError(t, s.CloseMetaMerkleProof(creator, 1, leaf.VoteAccount, now))

	_, ok := s.GetMetaMerkleProof(1, leaf.VoteAccount)
	require.False(t, ok)
}

func TestMetaMerkleProofClosableByAnyoneAfterExpiry(t *testing.T) {
	s := result.NewStore()
	creator := identitytest.New()
	leaf := snapshot.MetaMerkleLeaf{VoteAccount: identitytest.New()}
	now := time.Now()
	expiry := now.Add(time.Hour)

	_, err := s.InitMetaMerkleProof(creator, 1, leaf, nil, expiry)
	require.NoError(t, err)

	other := identitytest.New()
	afterExpiry := expiry.Add(time.Second)
	require.NoError(t, s.CloseMetaMerkleProof(other, 1, leaf.VoteAccount, afterExpiry))
}
