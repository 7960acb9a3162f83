package der_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axent-pl/idtoken/common/der"
)

func TestInteger(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{
			name: "short form without sign byte",
			in:   []byte{0x01, 0x00, 0x01},
			want: []byte{0x02, 0x03, 0x01, 0x00, 0x01},
		},
		{
			name: "high bit set gets zero prefix",
			in:   []byte{0x80},
			want: []byte{0x02, 0x02, 0x00, 0x80},
		},
		{
			name: "127 bytes stays short form",
			in:   bytes.Repeat([]byte{0x11}, 127),
			want: append([]byte{0x02, 0x7f}, bytes.Repeat([]byte{0x11}, 127)...),
		},
		{
			name: "128 bytes uses one length byte",
			in:   bytes.Repeat([]byte{0x11}, 128),
			want: append([]byte{0x02, 0x81, 0x80}, bytes.Repeat([]byte{0x11}, 128)...),
		},
		{
			name: "2048 bit modulus uses two length bytes",
			in:   bytes.Repeat([]byte{0xff}, 256),
			want: append([]byte{0x02, 0x82, 0x01, 0x01, 0x00}, bytes.Repeat([]byte{0xff}, 256)...),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := der.Integer(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestInteger_Empty(t *testing.T) {
	_, err := der.Integer(nil)
	require.ErrorIs(t, err, der.ErrEmptyInteger)
}

func TestRSAPublicKeyInfo_MatchesX509(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	got, err := der.RSAPublicKeyInfo(key.N.Bytes(), big.NewInt(int64(key.E)).Bytes())
	require.NoError(t, err)

	want, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	require.Equal(t, want, got)

	parsed, err := x509.ParsePKIXPublicKey(got)
	require.NoError(t, err)
	pub, ok := parsed.(*rsa.PublicKey)
	require.True(t, ok)
	require.True(t, pub.Equal(&key.PublicKey))
}

func TestRSAPublicKeyInfo_FixedAlgorithmIdentifier(t *testing.T) {
	got, err := der.RSAPublicKeyInfo([]byte{0x05}, []byte{0x03})
	require.NoError(t, err)
	want := []byte{
		0x30, 0x1a,
		0x30, 0x0d, 0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01, 0x05, 0x00,
		0x03, 0x09, 0x00,
		0x30, 0x06, 0x02, 0x01, 0x05, 0x02, 0x01, 0x03,
	}
	require.Equal(t, want, got)
}

func TestRSAPublicKeyInfo_Empty(t *testing.T) {
	_, err := der.RSAPublicKeyInfo(nil, []byte{0x01})
	require.ErrorIs(t, err, der.ErrEmptyInteger)
	_, err = der.RSAPublicKeyInfo([]byte{0x01}, nil)
	require.ErrorIs(t, err, der.ErrEmptyInteger)
}
