// Package token provides client-side inspection of bearer tokens. The
// backend's tokens are opaque to the client by contract; when they happen
// to be JWTs, peeking at the expiry lets the client fail fast on a dead
// session instead of spending a network round-trip. A peek is never proof
// of validity; only the server's word counts.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of token claims the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Peek decodes a JWT access token without verifying its signature.
// Returns ok=false for opaque (non-JWT) tokens.
func Peek(raw string) (Claims, bool) {
	parser := jwt.NewParser()
	mapClaims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, mapClaims); err != nil {
		return Claims{}, false
	}

	var claims Claims
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, true
}

// Expired reports whether the token's expiry has passed. Tokens without
// an exp claim never report as expired.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}
