package utils

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := CreateSessionToken(secret, "sess-1", "pro", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ValidateSessionToken(secret, tok)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.PlanType != "pro" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestSessionTokenRejections(t *testing.T) {
	secret := []byte("test-secret")
	expired, _ := CreateSessionToken(secret, "sess-1", "pro", -time.Minute)
	valid, _ := CreateSessionToken(secret, "sess-1", "pro", time.Minute)

	tests := []struct {
		name    string
		secret  []byte
		token   string
		expired bool
	}{
		{"expired", secret, expired, true},
		{"wrong secret", []byte("other"), valid, false},
		{"garbage", secret, "not.a.jwt", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateSessionToken(tc.secret, tc.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
			if IsExpired(err) != tc.expired {
				t.Errorf("IsExpired = %v, want %v", IsExpired(err), tc.expired)
			}
		})
	}
}
