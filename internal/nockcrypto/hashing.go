package nockcrypto

import (
	"encoding/hex"

	"github.com/btcsuite/btcutil/base58"
	"github.com/zeebo/blake3"

	"github.com/docxology/nockit/internal/nockiterr"
)

// HashData hashes data with Blake3.
func HashData(data []byte) Hash {
	sum := blake3.Sum256(data)
	return Hash(sum)
}

// HashMultiple hashes several pieces of data together as one message,
// matching the original crate's hash_multiple.
func HashMultiple(pieces ...[]byte) Hash {
	h := blake3.New()
	for _, p := range pieces {
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyHash reports whether data hashes to expected.
func VerifyHash(data []byte, expected Hash) bool {
	return HashData(data) == expected
}

// ToHex renders the hash as lowercase hex.
func (h Hash) ToHex() string { return hex.EncodeToString(h[:]) }

// ToBase58 renders the hash as base58.
func (h Hash) ToBase58() string { return base58.Encode(h[:]) }

// HashFromHex decodes a hex-encoded 32-byte hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, nockiterr.Wrap(nockiterr.KindCryptographic, "decode hex hash", err)
	}
	if len(b) != len(h) {
		return h, nockiterr.New(nockiterr.KindCryptographic, "hash must be exactly 32 bytes")
	}
	copy(h[:], b)
	return h, nil
}

// kdfDomainSeparator fixes the domain for password-derived keys so the
// same (password, salt) pair never collides with HashData's plain
// hashing of arbitrary data.
const kdfDomainSeparator = "nockit-kdf-v1"

// DeriveFromPassword computes Blake3(password || salt || domain) as a
// 32-byte key. This is NOT a password-stretching KDF: collision and
// preimage resistance come from Blake3 alone. Whether to add a proper
// KDF (scrypt/argon2) is an open policy question left to the operator
// (spec §9); strengthening it here would silently contradict the
// documented trade-off.
func DeriveFromPassword(password string, salt []byte) [32]byte {
	h := blake3.New()
	h.Write([]byte(password))
	h.Write(salt)
	h.Write([]byte(kdfDomainSeparator))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
