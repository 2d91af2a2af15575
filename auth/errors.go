package auth

import "errors"

var (
	ErrStateMismatch = errors.New("authorization state mismatch")
	ErrNoIDToken     = errors.New("no id_token in provider response")
	ErrTokenInvalid  = errors.New("identity token verification failed")
)
