package idtoken

import (
	"errors"

	"github.com/axent-pl/idtoken/common"
)

// Reason identifies why a token was rejected. It is meant for logs and telemetry;
// callers should treat every rejection alike.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonMalformed
	ReasonAlgorithm
	ReasonUnknownKey
	ReasonSignature
	ReasonIssuer
	ReasonAudience
	ReasonExpired
	ReasonIssuedInFuture
)

func (r Reason) String() string {
	switch r {
	case ReasonMalformed:
		return "bad_format"
	case ReasonAlgorithm:
		return "bad_algorithm"
	case ReasonUnknownKey:
		return "unknown_key"
	case ReasonSignature:
		return "bad_signature"
	case ReasonIssuer:
		return "bad_issuer"
	case ReasonAudience:
		return "bad_audience"
	case ReasonExpired:
		return "expired"
	case ReasonIssuedInFuture:
		return "future_issued"
	default:
		return "unknown"
	}
}

// RejectedError is returned for every token that fails verification.
type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string {
	return common.ErrInvalidCredentials.Error() + ": " + e.Reason.String()
}

func (e *RejectedError) Unwrap() error { return common.ErrInvalidCredentials }

// ReasonOf returns the rejection reason carried by err, or ReasonUnknown.
func ReasonOf(err error) Reason {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ReasonUnknown
}
