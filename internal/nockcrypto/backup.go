package nockcrypto

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

const backupFormatVersion = 1
const backupFormat = "nockit-wallet-backup"

// Envelope is the on-disk backup document (spec §3). It carries no
// integrity tag: it is treated as secret-at-rest, not tamper-evident
// (spec §9 open question).
type Envelope struct {
	Version   uint32            `json:"version"`
	Format    string            `json:"format"`
	CreatedAt time.Time         `json:"created_at"`
	KeyPair   envelopeKeyPair   `json:"keypair"`
	Metadata  map[string]string `json:"metadata"`
}

type envelopeKeyPair struct {
	PublicBase58 string `json:"public_base58"`
	PrivateHex   string `json:"private_hex"`
}

// ExportBackup writes a timestamped backup file under dir and returns
// its path.
func ExportBackup(pair KeyPair, dir string, metadata map[string]string) (string, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	env := Envelope{
		Version:   backupFormatVersion,
		Format:    backupFormat,
		CreatedAt: time.Now().UTC(),
		KeyPair: envelopeKeyPair{
			PublicBase58: pair.Public.Base58(),
			PrivateHex:   hex.EncodeToString(pair.Private[:]),
		},
		Metadata: metadata,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nockiterr.Wrap(nockiterr.KindIO, "create backup directory", err)
	}
	name := fmt.Sprintf("wallet_backup_%s.export", env.CreatedAt.Format("20060102T150405Z"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", nockiterr.Wrap(nockiterr.KindCryptographic, "serialize backup envelope", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nockiterr.Wrap(nockiterr.KindIO, "write backup file "+path, err)
	}
	return path, nil
}

// ImportBackup parses a backup envelope and returns the recovered
// KeyPair. The stored public key must re-derive from the stored
// private seed; a mismatch is a corrupt backup, per spec §4.2.
func ImportBackup(path string) (KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeyPair{}, nockiterr.Wrap(nockiterr.KindIO, "read backup file "+path, err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return KeyPair{}, nockiterr.Wrap(nockiterr.KindParsing, "parse backup file "+path, err)
	}
	if env.KeyPair.PublicBase58 == "" || env.KeyPair.PrivateHex == "" {
		return KeyPair{}, nockiterr.New(nockiterr.KindCryptographic, "corrupt backup: missing key fields")
	}

	storedPub, err := PublicKeyFromBase58(env.KeyPair.PublicBase58)
	if err != nil {
		return KeyPair{}, nockiterr.Wrap(nockiterr.KindCryptographic, "corrupt backup", err)
	}
	privBytes, err := hex.DecodeString(env.KeyPair.PrivateHex)
	if err != nil || len(privBytes) != len(PrivateKey{}) {
		return KeyPair{}, nockiterr.New(nockiterr.KindCryptographic, "corrupt backup: invalid private_hex")
	}
	var priv PrivateKey
	copy(priv[:], privBytes)

	if priv.PublicKey() != storedPub {
		return KeyPair{}, nockiterr.New(nockiterr.KindCryptographic, "corrupt backup: public key does not match derived key")
	}

	return KeyPair{Public: storedPub, Private: priv}, nil
}
