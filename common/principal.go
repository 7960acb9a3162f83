package common

type SubjectID string

// Principal is the local identity established from a verified ID token.
type Principal struct {
	Subject       SubjectID
	Email         string
	EmailVerified bool
	Attributes    map[string]any
}
