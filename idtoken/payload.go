package idtoken

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Payload holds the claims of a verified Google ID token.
type Payload struct {
	Issuer          string `json:"iss"`
	AuthorizedParty string `json:"azp,omitempty"`
	Audience        string `json:"aud"`
	Subject         string `json:"sub"`
	Email           string `json:"email,omitempty"`
	EmailVerified   bool   `json:"email_verified"`
	Name            string `json:"name,omitempty"`
	Picture         string `json:"picture,omitempty"`
	GivenName       string `json:"given_name,omitempty"`
	FamilyName      string `json:"family_name,omitempty"`
	IssuedAt        int64  `json:"iat"`
	Expires         int64  `json:"exp"`
}

// UnmarshalJSON accepts email_verified both as a boolean and as the string form
// found in older Google tokens.
func (p *Payload) UnmarshalJSON(b []byte) error {
	type plain Payload
	aux := struct {
		*plain
		EmailVerified json.RawMessage `json:"email_verified"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.EmailVerified = false
	if len(aux.EmailVerified) == 0 || string(aux.EmailVerified) == "null" {
		return nil
	}
	if err := json.Unmarshal(aux.EmailVerified, &p.EmailVerified); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(aux.EmailVerified, &s); err != nil {
		return fmt.Errorf("email_verified: %w", err)
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("email_verified: %w", err)
	}
	p.EmailVerified = v
	return nil
}

// IsIdentity reports whether p carries the fields a caller needs to treat it as an
// authoritative identity.
func (p *Payload) IsIdentity() bool {
	return p != nil && p.Email != "" && p.Subject != ""
}
