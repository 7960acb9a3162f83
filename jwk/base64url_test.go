package jwk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axent-pl/idtoken/jwk"
)

func TestDecodeBase64URL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "no padding needed", in: "AQAB", want: []byte{0x01, 0x00, 0x01}},
		{name: "one missing pad", in: "AQA", want: []byte{0x01, 0x00}},
		{name: "two missing pads", in: "AQ", want: []byte{0x01}},
		{name: "already padded", in: "AQ==", want: []byte{0x01}},
		{name: "url alphabet", in: "-_8", want: []byte{0xfb, 0xff}},
		{name: "empty", in: "", want: []byte{}},
		{name: "impossible length", in: "A", wantErr: true},
		{name: "illegal character", in: "AQ*B", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwk.DecodeBase64URL(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, jwk.ErrDecode)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
