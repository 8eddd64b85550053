// Package identity defines the 32-byte identity type shared by every
// component of the engine: operators, authorities, vote accounts, stake
// accounts and PDA addresses are all instances of Identity.
package identity

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

// Size is the fixed byte width of an Identity, matching a chain public key.
const Size = 32

// Identity is an opaque 32-byte address. It is comparable and usable as a
// map key directly.
type Identity [Size]byte

// Zero is the sentinel empty identity, used where a field is optional and
// unset (e.g. an unfilled proposed_authority).
var Zero Identity

// IsZero reports whether id is the all-zero sentinel.
func (id Identity) IsZero() bool {
	return id == Zero
}

// String renders the identity the way a base58-addressed chain would.
func (id Identity) String() string {
	return base58.Encode(id[:])
}

// Hex renders the identity as a hex string, useful for log fields where
// base58's variable width is awkward to scan.
func (id Identity) Hex() string {
	return hex.EncodeToString(id[:])
}

// New copies b into a new Identity. It panics if b is not exactly Size bytes,
// mirroring the fixed-width accounts this type models.
func New(b []byte) Identity {
	if len(b) != Size {
		panic("identity: input must be 32 bytes")
	}
	var id Identity
	copy(id[:], b)
	return id
}

// FromString parses a base58-encoded identity.
func FromString(s string) (Identity, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Identity{}, err
	}
	if len(b) != Size {
		return Identity{}, ErrInvalidLength
	}
	return New(b), nil
}

// DerivePDA deterministically derives a program-derived address from a
// sequence of seed byte strings, standing in for the host chain's PDA
// derivation (find_program_address) since this engine has no real account
// space to derive against.
func DerivePDA(seeds ...[]byte) Identity {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	var out Identity
	copy(out[:], h.Sum(nil))
	return out
}
