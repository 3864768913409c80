package goSession

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry extracts the exp claim from an access token without verifying
// the signature. Verification belongs to the authority alone; the local read
// exists only to skip a network round trip for a token that is provably dead
// and to stamp the snapshot's TokenExpiresAt.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// expiredLocally reports whether token carries an exp claim in the past.
// Opaque or malformed tokens are never treated as expired; the authority
// decides those.
func expiredLocally(token string, now time.Time) bool {
	exp, ok := tokenExpiry(token)
	return ok && now.After(exp)
}
