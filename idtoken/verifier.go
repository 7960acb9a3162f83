// Package idtoken verifies Google-issued OpenID Connect ID tokens signed with RS256.
package idtoken

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	jwtx "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/idtoken/common"
	"github.com/axent-pl/idtoken/common/logx"
	"github.com/axent-pl/idtoken/jwk"
)

const DefaultClockSkew = 300 * time.Second

// GoogleIssuers are the issuer values Google puts into ID tokens.
var GoogleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// Verification outcomes reported to a Recorder besides the rejection reasons.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// KeySource yields the provider's current key set; *jwks.KeyStore implements it.
type KeySource interface {
	Keys(ctx context.Context) (*jwk.Set, error)
}

type Recorder interface {
	RecordVerification(outcome string)
}

type Verifier struct {
	Keys      KeySource
	Issuers   []string      // accepted "iss" values; defaults to GoogleIssuers
	ClockSkew time.Duration // tolerance for "iat" in the future
	Now       func() time.Time
	Recorder  Recorder
}

// NewVerifier returns a Verifier for Google ID tokens using keys.
func NewVerifier(keys KeySource) *Verifier {
	return &Verifier{
		Keys:      keys,
		Issuers:   GoogleIssuers,
		ClockSkew: DefaultClockSkew,
	}
}

type header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

// Verify checks token against the expected audience (the OAuth client id) and returns
// its payload. Untrusted-input failures are *RejectedError values; a key set that cannot
// be obtained at all is returned as a wrapped jwks.ErrUnavailable.
func (v *Verifier) Verify(ctx context.Context, token, audience string) (*Payload, error) {
	if audience == "" {
		return nil, fmt.Errorf("%w: expected audience is required", common.ErrInvalidInput)
	}
	return v.VerifyAny(ctx, token, []string{audience})
}

// VerifyAny is Verify for deployments registering several client ids. The token
// audience must equal one of them exactly.
func (v *Verifier) VerifyAny(ctx context.Context, token string, audiences []string) (*Payload, error) {
	if len(audiences) == 0 || slices.Contains(audiences, "") {
		return nil, fmt.Errorf("%w: expected audience is required", common.ErrInvalidInput)
	}
	if v.Keys == nil {
		return nil, fmt.Errorf("%w: verifier has no key source", common.ErrInternal)
	}

	p, err := v.verify(ctx, token, audiences)
	if err != nil {
		if r := ReasonOf(err); r != ReasonUnknown {
			v.record(r.String())
		} else {
			v.record(OutcomeError)
		}
		return nil, err
	}
	v.record(OutcomeOK)
	return p, nil
}

func (v *Verifier) verify(ctx context.Context, token string, audiences []string) (*Payload, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, reject(ReasonMalformed, "token does not have three segments", "segments", len(segments))
	}

	var h header
	if err := decodeSegment(segments[0], &h); err != nil {
		return nil, reject(ReasonMalformed, "could not decode token header", "error", err)
	}
	if h.Alg != jwk.AlgRS256 {
		return nil, reject(ReasonAlgorithm, "token algorithm not allowed", "alg", h.Alg)
	}
	if h.Kid == "" {
		return nil, reject(ReasonMalformed, "token header has no kid")
	}

	set, err := v.Keys.Keys(ctx)
	if err != nil {
		logx.L().Error("could not obtain signing keys", "error", err)
		return nil, err
	}
	key, ok := set.Lookup(h.Kid)
	if !ok {
		return nil, reject(ReasonUnknownKey, "no signing key for kid", "kid", h.Kid)
	}
	pub, err := key.RSAPublicKey()
	if err != nil {
		return nil, reject(ReasonUnknownKey, "signing key is unusable", "kid", h.Kid, "error", err)
	}

	sig, err := jwk.DecodeBase64URL(segments[2])
	if err != nil {
		return nil, reject(ReasonMalformed, "could not decode token signature", "kid", h.Kid)
	}
	signingInput := segments[0] + "." + segments[1]
	if err := jwtx.SigningMethodRS256.Verify(signingInput, sig, pub); err != nil {
		return nil, reject(ReasonSignature, "token signature mismatch", "kid", h.Kid)
	}

	var p Payload
	if err := decodeSegment(segments[1], &p); err != nil {
		return nil, reject(ReasonMalformed, "could not decode token payload", "kid", h.Kid, "error", err)
	}

	issuers := v.Issuers
	if len(issuers) == 0 {
		issuers = GoogleIssuers
	}
	if !slices.Contains(issuers, p.Issuer) {
		return nil, reject(ReasonIssuer, "token issuer not accepted", "iss", p.Issuer)
	}
	if !slices.Contains(audiences, p.Audience) {
		return nil, reject(ReasonAudience, "token audience mismatch", "aud", p.Audience)
	}

	now := v.now().Unix()
	if p.Expires <= now {
		return nil, reject(ReasonExpired, "token expired", "exp", p.Expires, "now", now)
	}
	if p.IssuedAt > now+int64(v.ClockSkew/time.Second) {
		return nil, reject(ReasonIssuedInFuture, "token issued in the future", "iat", p.IssuedAt, "now", now)
	}

	return &p, nil
}

func (v *Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func (v *Verifier) record(outcome string) {
	if v.Recorder != nil {
		v.Recorder.RecordVerification(outcome)
	}
}

func decodeSegment(seg string, out any) error {
	b, err := jwk.DecodeBase64URL(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func reject(reason Reason, msg string, args ...any) error {
	logx.L().Warn("id token rejected: "+msg, append([]any{"reason", reason.String()}, args...)...)
	return &RejectedError{Reason: reason}
}
