package jwk

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/axent-pl/idtoken/common/der"
)

var ErrUnsupportedKey = errors.New("unsupported key")

// rawRSA returns the decoded modulus and exponent after checking the key profile.
func (k Key) rawRSA() (n, e []byte, err error) {
	if !strings.EqualFold(k.Kty, KeyTypeRSA) {
		return nil, nil, fmt.Errorf("%w: kty %q", ErrUnsupportedKey, k.Kty)
	}
	if k.Alg != "" && k.Alg != AlgRS256 {
		return nil, nil, fmt.Errorf("%w: alg %q", ErrUnsupportedKey, k.Alg)
	}
	if k.N == "" || k.E == "" {
		return nil, nil, fmt.Errorf("%w: missing modulus or exponent", ErrUnsupportedKey)
	}
	if n, err = DecodeBase64URL(k.N); err != nil {
		return nil, nil, fmt.Errorf("rsa n: %w", err)
	}
	if e, err = DecodeBase64URL(k.E); err != nil {
		return nil, nil, fmt.Errorf("rsa e: %w", err)
	}
	return n, e, nil
}

// RSAPublicKey converts the key into a *rsa.PublicKey.
func (k Key) RSAPublicKey() (*rsa.PublicKey, error) {
	n, e, err := k.rawRSA()
	if err != nil {
		return nil, err
	}
	eBig := new(big.Int).SetBytes(e)
	if !eBig.IsInt64() || eBig.Int64() > int64(^uint32(0)>>1) || eBig.Int64() < 2 {
		return nil, errors.New("rsa exponent out of range")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(eBig.Int64())}, nil
}

// SubjectPublicKeyInfo returns the DER encoding of the key as used in PEM "PUBLIC KEY" blocks.
func (k Key) SubjectPublicKeyInfo() ([]byte, error) {
	n, e, err := k.rawRSA()
	if err != nil {
		return nil, err
	}
	return der.RSAPublicKeyInfo(n, e)
}

// PEM returns the key framed as a "PUBLIC KEY" PEM block with 64 character lines.
func (k Key) PEM() ([]byte, error) {
	spki, err := k.SubjectPublicKeyInfo()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: spki}), nil
}

// Fingerprint is the hex SHA-256 of the SubjectPublicKeyInfo.
func (k Key) Fingerprint() (string, error) {
	spki, err := k.SubjectPublicKeyInfo()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(spki)
	return hex.EncodeToString(sum[:]), nil
}
