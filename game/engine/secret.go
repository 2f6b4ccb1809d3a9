package engine

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// NewSecret returns a random 4-permutation of the digits 0-9.
//
// Each call builds its own generator seeded from crypto/rand, so games
// created in the same instant never share a predictable secret.
func NewSecret() Secret {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("engine: crypto/rand unavailable: " + err.Error())
	}
	rng := rand.New(rand.NewChaCha8(seed))

	var s Secret
	for i, d := range rng.Perm(10)[:SecretLength] {
		s[i] = d
	}
	return s
}
