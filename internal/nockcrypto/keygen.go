package nockcrypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/docxology/nockit/internal/nockiterr"
)

// Generate produces a new random KeyPair using the OS-provided CSPRNG.
// Unlike the original Rust crate's placeholder (which seeded from wall
// clock time via a non-cryptographic hasher), this always draws
// entropy from crypto/rand, per spec §4.2.
func Generate() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, nockiterr.Wrap(nockiterr.KindCryptographic, "generate key pair", err)
	}
	var kp KeyPair
	copy(kp.Public[:], pub)
	copy(kp.Private[:], priv.Seed())
	return kp, nil
}

// FromSeed reconstructs a KeyPair from a 32-byte private seed,
// deriving the public half deterministically.
func FromSeed(seed [32]byte) KeyPair {
	priv := PrivateKey(seed)
	return KeyPair{Public: priv.PublicKey(), Private: priv}
}

// Sign produces a raw 64-byte Ed25519 signature over msg.
func Sign(priv PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv.expanded(), msg)
}

// Verify reports whether sig is a valid Ed25519 signature over msg
// under pub.
func Verify(pub PublicKey, msg, sig []byte) bool {
	return ed25519.Verify(pub[:], msg, sig)
}
