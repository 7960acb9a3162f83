package common

import "errors"

// ErrInvalidCredentials is wrapped by every rejection of untrusted input.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidInput signals caller misuse, not an untrusted-input condition.
var ErrInvalidInput = errors.New("bad input")

var ErrInternal = errors.New("internal error")
