package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/axent-pl/idtoken/common"
)

const maxFormSize = 64 << 10

// credentialFromRequest extracts the ID token from a bearer Authorization header or
// from the "credential" form field posted by Google Identity Services.
func credentialFromRequest(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 {
			return "", fmt.Errorf("%w: invalid Authorization header", common.ErrInvalidInput)
		}
		if !strings.EqualFold(parts[0], "Bearer") {
			return "", fmt.Errorf("%w: invalid Authorization scheme", common.ErrInvalidInput)
		}
		return parts[1], nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("%w: could not parse form: %w", common.ErrInvalidInput, err)
	}
	token := r.PostFormValue("credential")
	if token == "" {
		return "", fmt.Errorf("%w: missing credential", common.ErrInvalidInput)
	}
	return token, nil
}
