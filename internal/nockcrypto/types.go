// Package nockcrypto implements KeyStore: Ed25519 key generation,
// signing, verification, Blake3 hashing, password-based key
// derivation, and the file/backup formats the wallet commands persist
// keys in (spec §4.2). Private key material never appears in a
// human-facing rendering; Stringer/GoStringer implementations on
// PrivateKey emit a redaction placeholder instead.
package nockcrypto

import (
	"crypto/ed25519"

	"github.com/btcsuite/btcutil/base58"
)

const redacted = "<redacted>"

// PublicKey is a 32-byte Ed25519 public key.
type PublicKey [ed25519.PublicKeySize]byte

// Base58 renders the public key the way the original Rust crate's
// bs58-backed PublicKey::to_base58 did.
func (p PublicKey) Base58() string {
	return base58.Encode(p[:])
}

func (p PublicKey) String() string { return p.Base58() }

// Bytes returns the raw key bytes.
func (p PublicKey) Bytes() []byte { return append([]byte(nil), p[:]...) }

// PublicKeyFromBase58 decodes a base58-rendered public key.
func PublicKeyFromBase58(s string) (PublicKey, error) {
	decoded := base58.Decode(s)
	var pub PublicKey
	if len(decoded) != ed25519.PublicKeySize {
		return pub, errInvalidPublicKey(s)
	}
	copy(pub[:], decoded)
	return pub, nil
}

// PrivateKey is the 32-byte Ed25519 seed, treated as secret-at-rest.
// Its Debug/String forms never include the underlying bytes.
type PrivateKey [ed25519.SeedSize]byte

func (p PrivateKey) String() string   { return redacted }
func (p PrivateKey) GoString() string { return redacted }

// Bytes returns the raw seed bytes. Callers that format a PrivateKey
// for human consumption must use String()/GoString(), never Bytes(),
// to honor the no-secrets-in-logs contract.
func (p PrivateKey) Bytes() []byte { return append([]byte(nil), p[:]...) }

// expanded returns the full 64-byte ed25519.PrivateKey derived from
// the seed, as required by ed25519.Sign.
func (p PrivateKey) expanded() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(p[:])
}

// PublicKey derives the public key that corresponds to this private
// seed, deterministically, per the standard Ed25519 curve.
func (p PrivateKey) PublicKey() PublicKey {
	var pub PublicKey
	copy(pub[:], p.expanded().Public().(ed25519.PublicKey))
	return pub
}

// KeyPair is a matched Ed25519 public/private key.
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}

// String never renders the private half.
func (k KeyPair) String() string {
	return "KeyPair{Public: " + k.Public.Base58() + ", Private: " + redacted + "}"
}

// Hash is a 32-byte Blake3 digest.
type Hash [32]byte

func (h Hash) Bytes() []byte { return append([]byte(nil), h[:]...) }
func (h Hash) String() string { return h.ToHex() }
