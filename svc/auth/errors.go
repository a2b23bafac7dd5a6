package auth

import "errors"

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrMissingSubject    = errors.New("token has no subject")
	ErrNoActiveAccount   = errors.New("no active account")
	ErrPendingMembership = errors.New("membership is pending approval")
)
