package idtoken

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jwtx "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/idtoken/jwks"
)

// Issuer mints Google-shaped ID tokens with a local key. It stands in for the
// provider in tests and local development.
type Issuer struct {
	Kid      string
	Key      *rsa.PrivateKey
	Issuer   string        // defaults to https://accounts.google.com
	Lifetime time.Duration // defaults to one hour
	Now      func() time.Time
}

// Issue signs p after filling iss, iat and exp when they are zero.
func (iss *Issuer) Issue(p Payload) (string, error) {
	now := time.Now()
	if iss.Now != nil {
		now = iss.Now()
	}
	if p.Issuer == "" {
		p.Issuer = iss.Issuer
		if p.Issuer == "" {
			p.Issuer = GoogleIssuers[0]
		}
	}
	if p.IssuedAt == 0 {
		p.IssuedAt = now.Unix()
	}
	if p.Expires == 0 {
		lifetime := iss.Lifetime
		if lifetime <= 0 {
			lifetime = time.Hour
		}
		p.Expires = now.Add(lifetime).Unix()
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("could not marshal payload: %w", err)
	}
	claims := jwtx.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return "", fmt.Errorf("could not build claims: %w", err)
	}
	return iss.Sign(claims)
}

// Sign signs arbitrary claims with RS256 and the issuer's kid.
func (iss *Issuer) Sign(claims jwtx.MapClaims) (string, error) {
	if iss.Key == nil {
		return "", errors.New("issuer has no signing key")
	}
	token := jwtx.NewWithClaims(jwtx.SigningMethodRS256, claims)
	if iss.Kid != "" {
		token.Header["kid"] = iss.Kid
	}
	signed, err := token.SignedString(iss.Key)
	if err != nil {
		return "", fmt.Errorf("could not sign payload: %w", err)
	}
	return signed, nil
}

// JWKS returns the key set document publishing the issuer's public key.
func (iss *Issuer) JWKS() ([]byte, error) {
	if iss.Key == nil {
		return nil, errors.New("issuer has no signing key")
	}
	return jwks.Document(jwks.PublicKey{Kid: iss.Kid, Key: &iss.Key.PublicKey})
}
