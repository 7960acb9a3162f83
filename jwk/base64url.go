package jwk

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrDecode = errors.New("base64url decode failed")

var urlToStd = strings.NewReplacer("-", "+", "_", "/")

// DecodeBase64URL decodes s from the URL-safe alphabet with or without trailing padding.
func DecodeBase64URL(s string) ([]byte, error) {
	std := urlToStd.Replace(s)
	if rem := len(std) % 4; rem != 0 {
		std += strings.Repeat("=", 4-rem)
	}
	b, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}
