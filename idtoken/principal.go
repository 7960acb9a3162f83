package idtoken

import "github.com/axent-pl/idtoken/common"

// Principal maps a verified payload onto the local identity.
func Principal(p *Payload) (common.Principal, error) {
	if !p.IsIdentity() {
		return common.Principal{}, common.ErrInvalidCredentials
	}
	principal := common.Principal{
		Subject:       common.SubjectID(p.Subject),
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		Attributes:    map[string]any{},
	}
	for name, v := range map[string]string{
		"name":        p.Name,
		"picture":     p.Picture,
		"given_name":  p.GivenName,
		"family_name": p.FamilyName,
		"azp":         p.AuthorizedParty,
	} {
		if v != "" {
			principal.Attributes[name] = v
		}
	}
	return principal, nil
}
