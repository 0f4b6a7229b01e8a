// Package token decodes bearer tokens without verifying them. The
// backend never shares its signing key with this client, so expiry is
// the only claim we can act on, and only as a liveness hint for
// gating requests, never as an authorization decision.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims decodes the payload of a JWT without signature verification.
func Claims(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// IsValid reports whether the token carries an exp claim in the
// future. Malformed tokens and tokens without exp are treated as
// expired.
func IsValid(tokenString string) bool {
	claims, err := Claims(tokenString)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now())
}

// ExpiresAt returns the token's expiry, or nil when it cannot be
// decoded.
func ExpiresAt(tokenString string) *time.Time {
	claims, err := Claims(tokenString)
	if err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}

// AuthHeader returns the Authorization header for a present, unexpired
// token, else an empty map that callers can merge unconditionally.
func AuthHeader(tokenString string) map[string]string {
	if tokenString == "" || !IsValid(tokenString) {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + tokenString}
}
