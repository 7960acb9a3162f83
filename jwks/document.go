package jwks

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/axent-pl/idtoken/jwk"
)

// PublicKey pairs a verification key with the identifier it is published under.
type PublicKey struct {
	Kid string
	Key *rsa.PublicKey
}

// Document builds the JSON Web Key Set document publishing keys.
func Document(keys ...PublicKey) ([]byte, error) {
	set := jwk.Set{Keys: make([]jwk.Key, 0, len(keys))}
	for _, k := range keys {
		jk, err := jwk.FromRSAPublicKey(k.Kid, k.Key)
		if err != nil {
			return nil, fmt.Errorf("could not generate JWK for kid %q: %w", k.Kid, err)
		}
		set.Keys = append(set.Keys, jk)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(set)
}

// Handler serves a static key set document with an ETag, answering conditional
// requests with 304.
func Handler(doc []byte, maxAgeSec int) http.Handler {
	sum := sha256.Sum256(doc)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSec))
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	})
}
