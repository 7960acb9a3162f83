package jwk

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
)

// FromRSAPublicKey builds the RS256 signing JWK for pub.
func FromRSAPublicKey(kid string, pub *rsa.PublicKey) (Key, error) {
	if pub == nil || pub.N == nil {
		return Key{}, errors.New("nil key")
	}
	return Key{
		Kid: kid,
		Kty: KeyTypeRSA,
		Alg: AlgRS256,
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}, nil
}
