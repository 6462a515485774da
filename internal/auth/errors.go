package auth

import "errors"

// Domain errors for the auth package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, auth.ErrTokenExpired) {
//	    // respond 401 with "Token expired"
//	}
var (
	// ErrTokenInvalid is returned when a token fails signature or format checks.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrTokenExpired is returned when a token is well-formed and correctly
	// signed but its exp claim is in the past.
	ErrTokenExpired = errors.New("auth: token expired")
)
