package nockcrypto

import (
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/docxology/nockit/internal/nockiterr"
)

// keyFile is the on-disk JSON rendering of a KeyPair: public_base58
// plus private_hex, matching the format described in spec §4.2.
type keyFile struct {
	PublicBase58 string `json:"public_base58"`
	PrivateHex   string `json:"private_hex"`
}

// Save writes pair to path as JSON containing public_base58 and
// private_hex.
func Save(pair KeyPair, path string) error {
	kf := keyFile{
		PublicBase58: pair.Public.Base58(),
		PrivateHex:   hex.EncodeToString(pair.Private[:]),
	}
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindCryptographic, "serialize key pair", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write key file "+path, err)
	}
	return nil
}

// Load reads a KeyPair from path. Documents missing either field are
// rejected.
func Load(path string) (KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeyPair{}, nockiterr.Wrap(nockiterr.KindIO, "read key file "+path, err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return KeyPair{}, nockiterr.Wrap(nockiterr.KindParsing, "parse key file "+path, err)
	}
	if kf.PublicBase58 == "" || kf.PrivateHex == "" {
		return KeyPair{}, nockiterr.New(nockiterr.KindCryptographic, "key file missing public_base58 or private_hex")
	}

	pub, err := PublicKeyFromBase58(kf.PublicBase58)
	if err != nil {
		return KeyPair{}, err
	}
	privBytes, err := hex.DecodeString(kf.PrivateHex)
	if err != nil || len(privBytes) != len(PrivateKey{}) {
		return KeyPair{}, nockiterr.New(nockiterr.KindCryptographic, "key file private_hex is not a 32-byte seed")
	}
	var priv PrivateKey
	copy(priv[:], privBytes)

	return KeyPair{Public: pub, Private: priv}, nil
}
