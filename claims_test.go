package goSession

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenExpiryReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := tokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("expiry not found")
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}
}

func TestExpiredLocally(t *testing.T) {
	now := time.Now()

	live := signedToken(t, now.Add(time.Hour))
	if expiredLocally(live, now) {
		t.Fatal("live token treated as expired")
	}

	dead := signedToken(t, now.Add(-time.Hour))
	if !expiredLocally(dead, now) {
		t.Fatal("dead token treated as live")
	}
}

func TestOpaqueTokenNeverExpiresLocally(t *testing.T) {
	// A non-JWT token carries no provable expiry; only the authority may
	// declare it dead.
	if expiredLocally("opaque-session-token", time.Now()) {
		t.Fatal("opaque token treated as expired")
	}
	if _, ok := tokenExpiry("not.a.jwt"); ok {
		t.Fatal("expiry extracted from garbage")
	}
}
