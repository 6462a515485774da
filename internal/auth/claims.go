package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the decoded payload of a verified webhook bearer token.
// Only the registered claims are used; the issuer is informational and
// logged on successful verification, never enforced.
type Claims struct {
	jwt.RegisteredClaims
}

// VerifyToken validates a bearer token against the shared secret and
// returns its claims.
//
// Checks performed:
//   - Signature, restricted to HS256 (jwt.WithValidMethods). Tokens whose
//     header names any other algorithm are rejected.
//   - Expiry, when the token carries an exp claim. Tokens without exp do
//     not expire.
//
// Returns ErrTokenExpired for an expired-but-otherwise-valid token and
// ErrTokenInvalid for every other failure. Both wrap the underlying
// library error so callers can log detail without leaking it to clients.
func VerifyToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// NewToken creates a signed HS256 token for the given issuer.
//
// A ttl of zero produces a token without an exp claim, which never
// expires; any other ttl sets exp relative to now, so a negative ttl
// yields an already-expired token. This helper exists for operator
// tooling and tests; switchhook itself exposes no token issuance
// endpoint.
func NewToken(secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
