package merkle_test

import (
	"testing"

	"github.com/cmwaters/vsnap/merkle"
	"github.com/stretchr/testify/require"
)

func TestEmptyTreeHasZeroRoot(t *testing.T) {
	tree := merkle.BuildTree(nil)
	require.Equal(t, merkle.ZeroRoot, tree.Root())
	require.Equal(t, 0, tree.LeafCount())
}

func TestSingleLeafTreeRootIsLeafHash(t *testing.T) {
	leaf := merkle.HashLeaf([]byte("only leaf"))
	tree := merkle.BuildTree([]merkle.Hash32{leaf})
	require.Equal(t, leaf, tree.Root())
}

func TestOddLevelPromotesTailUnchanged(t *testing.T) {
	a := merkle.HashLeaf([]byte("a"))
	b := merkle.HashLeaf([]byte("b"))
	c := merkle.HashLeaf([]byte("c"))
	tree := merkle.BuildTree([]merkle.Hash32{a, b, c})

	ab := merkle.Combine(a, b)
	want := merkle.Combine(ab, c)
	require.Equal(t, want, tree.Root())
}

func TestCombineIsCommutative(t *testing.T) {
	a := merkle.HashLeaf([]byte("a"))
	b := merkle.HashLeaf([]byte("b"))
	require.Equal(t, merkle.Combine(a, b), merkle.Combine(b, a))
}

func TestProofRoundTrips(t *testing.T) {
	leaves := make([]merkle.Hash32, 0, 5)
	raw := [][]byte{[]byte("l0"), []byte("l1"), []byte("l2"), []byte("l3"), []byte("l4")}
	for _, r := range raw {
		leaves = append(leaves, merkle.HashLeaf(r))
	}
	tree := merkle.BuildTree(leaves)
	root := tree.Root()

	for i, r := range raw {
		proof, err := tree.Proof(i)
		require.NoError(t, err)
		require.NoError(t, merkle.Verify(r, proof, root))
	}
}

func TestVerifyRejectsWrongRoot(t *testing.T) {
	leaf := []byte("leaf")
	var bogusRoot merkle.Hash32
	bogusRoot[0] = 1
	err := merkle.Verify(leaf, nil, bogusRoot)
	require.ErrorIs(t, err, merkle.ErrProofInvalid)
}

func TestVerifyRejectsOverlongProof(t *testing.T) {
	proof := make([]merkle.Hash32, merkle.MaxProofLen+1)
	err := merkle.Verify([]byte("leaf"), proof, merkle.Hash32{})
	require.ErrorIs(t, err, merkle.ErrProofTooLong)
}

// TestTwoValidatorSnapshot reproduces the worked example from the
// two-tier scenario: V1 has stakes {100, 200}, V2 has a single stake of 500.
func TestTwoValidatorSnapshot(t *testing.T) {
	s11 := merkle.HashLeaf([]byte("stake:S11:100"))
	s12 := merkle.HashLeaf([]byte("stake:S12:200"))
	bottom1 := merkle.BuildTree([]merkle.Hash32{s11, s12})
	br1 := bottom1.Root()

	s21 := merkle.HashLeaf([]byte("stake:S21:500"))
	bottom2 := merkle.BuildTree([]merkle.Hash32{s21})
	br2 := bottom2.Root()
	require.Equal(t, s21, br2, "single-leaf bottom tier root equals the leaf hash")

	l1 := merkle.HashLeaf(append([]byte("validator:V1:"), br1[:]...))
	l2 := merkle.HashLeaf(append([]byte("validator:V2:"), br2[:]...))
	top := merkle.BuildTree([]merkle.Hash32{l1, l2})
	tr := top.Root()
	require.Equal(t, merkle.Combine(l1, l2), tr)

	stakeProof, err := bottom1.Proof(0)
	require.NoError(t, err)
	require.Equal(t, []merkle.Hash32{s12}, stakeProof)
	require.NoError(t, merkle.Verify([]byte("stake:S11:100"), stakeProof, br1))

	metaProof, err := top.Proof(0)
	require.NoError(t, err)
	require.Equal(t, []merkle.Hash32{l2}, metaProof)
	require.NoError(t, merkle.Verify(append([]byte("validator:V1:"), br1[:]...), metaProof, tr))

	// checking V1's leaf and proof against a different root must fail.
	require.ErrorIs(t,
		merkle.Verify(append([]byte("validator:V1:"), br1[:]...), metaProof, merkle.Combine(l1, s11)),
		merkle.ErrProofInvalid)
}
