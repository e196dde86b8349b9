package nockcrypto

import "github.com/docxology/nockit/internal/nockiterr"

func errInvalidPublicKey(s string) error {
	return nockiterr.New(nockiterr.KindCryptographic, "invalid public key format: "+s)
}
