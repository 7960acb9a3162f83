// Package der builds the DER encoding of an RSA SubjectPublicKeyInfo from the raw
// big-endian modulus and exponent bytes carried by a JWK.
//
// Layout produced by RSAPublicKeyInfo:
//
//	SEQUENCE {
//	  SEQUENCE { OID 1.2.840.113549.1.1.1, NULL }
//	  BIT STRING { 0x00, SEQUENCE { INTEGER n, INTEGER e } }
//	}
package der

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// rsaEncryptionAlgorithm is the DER AlgorithmIdentifier for rsaEncryption with NULL parameters.
var rsaEncryptionAlgorithm = []byte{
	0x30, 0x0d,
	0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01,
	0x05, 0x00,
}

var ErrEmptyInteger = errors.New("der: empty integer")

// Integer returns the DER INTEGER for an unsigned big-endian value. The bytes are
// used as given, with a 0x00 prefix when the high bit of the first byte is set.
func Integer(unsigned []byte) ([]byte, error) {
	if len(unsigned) == 0 {
		return nil, ErrEmptyInteger
	}
	b := cryptobyte.NewBuilder(nil)
	addInteger(b, unsigned)
	return b.Bytes()
}

// RSAPublicKeyInfo returns the DER SubjectPublicKeyInfo for the modulus n and exponent e.
func RSAPublicKeyInfo(n, e []byte) ([]byte, error) {
	if len(n) == 0 {
		return nil, fmt.Errorf("modulus: %w", ErrEmptyInteger)
	}
	if len(e) == 0 {
		return nil, fmt.Errorf("exponent: %w", ErrEmptyInteger)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.SEQUENCE, func(spki *cryptobyte.Builder) {
		spki.AddBytes(rsaEncryptionAlgorithm)
		spki.AddASN1(asn1.BIT_STRING, func(bits *cryptobyte.Builder) {
			// no unused bits
			bits.AddUint8(0)
			bits.AddASN1(asn1.SEQUENCE, func(key *cryptobyte.Builder) {
				addInteger(key, n)
				addInteger(key, e)
			})
		})
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("der: could not encode public key: %w", err)
	}
	return out, nil
}

func addInteger(b *cryptobyte.Builder, unsigned []byte) {
	b.AddASN1(asn1.INTEGER, func(v *cryptobyte.Builder) {
		if unsigned[0]&0x80 != 0 {
			v.AddUint8(0)
		}
		v.AddBytes(unsigned)
	})
}
