package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	tok, err := iss.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken err=%v", err)
	}
	id, err := iss.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if id != "user-1" {
		t.Fatalf("id=%q want user-1", id)
	}
}

func TestParseTokenRejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	other, _ := NewIssuer("other-secret", time.Hour).GenerateToken("user-1")
	expired, _ := NewIssuer("secret", -time.Minute).GenerateToken("user-1")

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": other,
		"expired":      expired,
		"empty":        "",
	}
	for name, tok := range cases {
		if _, err := iss.ParseToken(tok); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: want ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	if _, err := NewIssuer("secret", time.Hour).GenerateToken(""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestUserIDContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatal("empty context must not carry a user")
	}
	ctx := WithUserID(context.Background(), "u1")
	if id, ok := UserIDFromContext(ctx); !ok || id != "u1" {
		t.Fatalf("got %q %v", id, ok)
	}
}
