// Package snapshot defines the two-tier validator/stake data model and its
// deterministic binary encoding: the leaf types hashed into the Merkle tree,
// the off-chain snapshot container, and the content hash pinning a snapshot
// file to the ballot it is voted on.
package snapshot

import (
	"bytes"
	"encoding/binary"

	"github.com/cmwaters/vsnap/identity"
	"github.com/cmwaters/vsnap/merkle"
)

// MetaMerkleLeaf represents a validator node at the top tier.
type MetaMerkleLeaf struct {
	VoteAccount     identity.Identity
	VotingWallet    identity.Identity
	StakeMerkleRoot merkle.Hash32
	ActiveStake     uint64
}

// Encode returns the leaf's deterministic byte encoding.
func (l MetaMerkleLeaf) Encode() []byte {
	buf := make([]byte, 0, identity.Size*2+32+8)
	buf = append(buf, l.VoteAccount[:]...)
	buf = append(buf, l.VotingWallet[:]...)
	buf = append(buf, l.StakeMerkleRoot[:]...)
	buf = appendU64(buf, l.ActiveStake)
	return buf
}

// Hash hashes the leaf's encoding. Combined with a proof path, it folds to
// the top-tier root.
func (l MetaMerkleLeaf) Hash() merkle.Hash32 {
	return merkle.HashLeaf(l.Encode())
}

// StakeMerkleLeaf represents a single delegated stake at the bottom tier.
type StakeMerkleLeaf struct {
	StakeAccount identity.Identity
	VotingWallet identity.Identity
	ActiveStake  uint64
}

// Encode returns the leaf's deterministic byte encoding.
func (l StakeMerkleLeaf) Encode() []byte {
	buf := make([]byte, 0, identity.Size*2+8)
	buf = append(buf, l.StakeAccount[:]...)
	buf = append(buf, l.VotingWallet[:]...)
	buf = appendU64(buf, l.ActiveStake)
	return buf
}

// Hash hashes the leaf's encoding.
func (l StakeMerkleLeaf) Hash() merkle.Hash32 {
	return merkle.HashLeaf(l.Encode())
}

// ValidatorBundle groups one validator's top-tier leaf with the stake
// leaves it summarizes and the generated stake-tier proof for each,
// positionally aligned with StakeLeaves.
type ValidatorBundle struct {
	Leaf        MetaMerkleLeaf
	StakeLeaves []StakeMerkleLeaf
	StakeProofs [][]merkle.Hash32
}

// MetaMerkleSnapshot is the off-chain, fully-materialized two-tier snapshot.
// Only its content hash and top-tier root are ever committed on-chain; the
// snapshot itself is distributed and stored off-chain.
type MetaMerkleSnapshot struct {
	SnapshotSlot     uint64
	MetaMerkleRoot   merkle.Hash32
	ValidatorBundles []ValidatorBundle
}

// BuildStakeTree builds a validator's bottom-tier tree from its stake
// leaves, applying the zero-leaf convention: a validator with no
// delegations has a sentinel all-zero stake-merkle root.
func BuildStakeTree(leaves []StakeMerkleLeaf) *merkle.Tree {
	hashes := make([]merkle.Hash32, len(leaves))
	for i, l := range leaves {
		hashes[i] = l.Hash()
	}
	return merkle.BuildTree(hashes)
}

// BuildMetaTree builds the top-tier tree from the validator leaves, in
// input order.
func BuildMetaTree(leaves []MetaMerkleLeaf) *merkle.Tree {
	hashes := make([]merkle.Hash32, len(leaves))
	for i, l := range leaves {
		hashes[i] = l.Hash()
	}
	return merkle.BuildTree(hashes)
}

// Encode serializes a snapshot into its deterministic little-endian byte
// form: fixed-width fields encode natively, identities verbatim, sequences
// as u32-length-prefixed runs of elements.
func Encode(s *MetaMerkleSnapshot) []byte {
	var buf bytes.Buffer
	var tmp [8]byte

	binary.LittleEndian.PutUint64(tmp[:], s.SnapshotSlot)
	buf.Write(tmp[:])
	buf.Write(s.MetaMerkleRoot[:])

	binary.LittleEndian.PutUint32(tmp[:4], uint32(len(s.ValidatorBundles)))
	buf.Write(tmp[:4])

	for _, vb := range s.ValidatorBundles {
		buf.Write(vb.Leaf.Encode())

		binary.LittleEndian.PutUint32(tmp[:4], uint32(len(vb.StakeLeaves)))
		buf.Write(tmp[:4])
		for _, sl := range vb.StakeLeaves {
			buf.Write(sl.Encode())
		}

		binary.LittleEndian.PutUint32(tmp[:4], uint32(len(vb.StakeProofs)))
		buf.Write(tmp[:4])
		for _, proof := range vb.StakeProofs {
			binary.LittleEndian.PutUint32(tmp[:4], uint32(len(proof)))
			buf.Write(tmp[:4])
			for _, h := range proof {
				buf.Write(h[:])
			}
		}
	}

	return buf.Bytes()
}

// ContentHash returns SHA-256(Encode(s)), the value pinned into a Ballot as
// snapshot_hash.
func ContentHash(s *MetaMerkleSnapshot) merkle.Hash32 {
	return merkle.HashLeaf(Encode(s))
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// decoder is a bounds-checked cursor over an Encode-produced buffer.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, ErrTruncated
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) hash32() (merkle.Hash32, error) {
	var h merkle.Hash32
	b, err := d.take(32)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (d *decoder) identity() (identity.Identity, error) {
	b, err := d.take(identity.Size)
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.New(b), nil
}

func (d *decoder) metaMerkleLeaf() (MetaMerkleLeaf, error) {
	var l MetaMerkleLeaf
	var err error
	if l.VoteAccount, err = d.identity(); err != nil {
		return l, err
	}
	if l.VotingWallet, err = d.identity(); err != nil {
		return l, err
	}
	if l.StakeMerkleRoot, err = d.hash32(); err != nil {
		return l, err
	}
	if l.ActiveStake, err = d.u64(); err != nil {
		return l, err
	}
	return l, nil
}

func (d *decoder) stakeMerkleLeaf() (StakeMerkleLeaf, error) {
	var l StakeMerkleLeaf
	var err error
	if l.StakeAccount, err = d.identity(); err != nil {
		return l, err
	}
	if l.VotingWallet, err = d.identity(); err != nil {
		return l, err
	}
	if l.ActiveStake, err = d.u64(); err != nil {
		return l, err
	}
	return l, nil
}

// Decode parses a snapshot from its Encode-produced byte form, mirroring
// Encode's field order exactly. Round-tripping a snapshot through Encode
// then Decode yields a value equal to the original.
func Decode(b []byte) (*MetaMerkleSnapshot, error) {
	d := &decoder{buf: b}
	s := &MetaMerkleSnapshot{}

	var err error
	if s.SnapshotSlot, err = d.u64(); err != nil {
		return nil, err
	}
	if s.MetaMerkleRoot, err = d.hash32(); err != nil {
		return nil, err
	}

	bundleCount, err := d.u32()
	if err != nil {
		return nil, err
	}
	s.ValidatorBundles = make([]ValidatorBundle, bundleCount)

	for i := range s.ValidatorBundles {
		vb := &s.ValidatorBundles[i]
		if vb.Leaf, err = d.metaMerkleLeaf(); err != nil {
			return nil, err
		}

		stakeLeafCount, err := d.u32()
		if err != nil {
			return nil, err
		}
		vb.StakeLeaves = make([]StakeMerkleLeaf, stakeLeafCount)
		for j := range vb.StakeLeaves {
			if vb.StakeLeaves[j], err = d.stakeMerkleLeaf(); err != nil {
				return nil, err
			}
		}

		proofCount, err := d.u32()
		if err != nil {
			return nil, err
		}
		vb.StakeProofs = make([][]merkle.Hash32, proofCount)
		for j := range vb.StakeProofs {
			proofLen, err := d.u32()
			if err != nil {
				return nil, err
			}
			proof := make([]merkle.Hash32, proofLen)
			for k := range proof {
				if proof[k], err = d.hash32(); err != nil {
					return nil, err
				}
			}
			vb.StakeProofs[j] = proof
		}
	}

	return s, nil
}
