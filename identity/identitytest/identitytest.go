// Package identitytest generates realistic, distinct identities for tests,
// grounded on the ed25519-keypair-per-identity pattern used to mint test
// signers elsewhere in this lineage.
package identitytest

import (
	"crypto/ed25519"

	"github.com/cmwaters/vsnap/identity"
)

// New returns a fresh identity backed by a real ed25519 public key, so tests
// exercise the same 32-byte shape production identities have.
func New() identity.Identity {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return identity.New(pub)
}

// NewN returns n distinct fresh identities.
func NewN(n int) []identity.Identity {
	out := make([]identity.Identity, n)
	for i := range out {
		out[i] = New()
	}
	return out
}
