// Package jwk models the JSON Web Keys published by an OpenID provider and converts
// RSA keys into values usable for RS256 signature verification.
package jwk

import "fmt"

const (
	KeyTypeRSA = "RSA"
	AlgRS256   = "RS256"
)

// Key is a single entry of a JSON Web Key Set.
type Key struct {
	Kid string `json:"kid,omitempty"`
	Kty string `json:"kty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`
	// RSA modulus and exponent, base64url big-endian
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`
}

// Set is a JSON Web Key Set document.
type Set struct {
	Keys []Key `json:"keys"`
}

// Lookup returns the key whose identifier equals kid. An empty kid never matches.
func (s *Set) Lookup(kid string) (Key, bool) {
	if s == nil || kid == "" {
		return Key{}, false
	}
	for _, k := range s.Keys {
		if k.Kid == kid {
			return k, true
		}
	}
	return Key{}, false
}

// Kids lists the key identifiers in document order.
func (s *Set) Kids() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		out = append(out, k.Kid)
	}
	return out
}

// Validate checks the document shape: at least one key, unique identifiers.
func (s *Set) Validate() error {
	if s == nil || len(s.Keys) == 0 {
		return fmt.Errorf("jwks contains no keys")
	}
	seen := make(map[string]struct{}, len(s.Keys))
	for _, k := range s.Keys {
		if _, dup := seen[k.Kid]; dup {
			return fmt.Errorf("jwks contains duplicate kid %q", k.Kid)
		}
		seen[k.Kid] = struct{}{}
	}
	return nil
}
