package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	c, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	tokenString, err := c.Issue("user-42", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := c.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.ID != "user-42" {
		t.Errorf("subject = %q, want %q", claims.ID, "user-42")
	}
	if claims.Name != "Alice" {
		t.Errorf("name = %q, want %q", claims.Name, "Alice")
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("issuer = %q, want %q", claims.Issuer, TokenIssuer)
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := newTestCodec(t)

	for _, tokenString := range []string{
		"",
		"not-a-token",
		"only.two",
		"a.b.c.d",
	} {
		if _, err := c.Verify(tokenString); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrTokenMalformed", tokenString, err)
		}
	}
}

func TestVerifySignatureMismatch(t *testing.T) {
	c := newTestCodec(t)

	other, err := NewCodec("different-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	tokenString, err := other.Issue("user-42", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(tokenString); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("Verify = %v, want ErrSignatureMismatch", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	c := newTestCodec(t)

	tokenString, err := c.Issue("user-42", "Alice", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(tokenString); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTamperedExpiredTokenReportsSignature(t *testing.T) {
	c := newTestCodec(t)

	other, err := NewCodec("different-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	// Expired AND signed with the wrong key: the signature verdict must win.
	tokenString, err := other.Issue("user-42", "Alice", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(tokenString); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("Verify = %v, want ErrSignatureMismatch", err)
	}
}

func TestVerifyFlippedPayloadBit(t *testing.T) {
	c := newTestCodec(t)

	tokenString, err := c.Issue("user-42", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = c.Verify(tampered)
	if err == nil {
		t.Fatal("expected error for tampered token, got nil")
	}
	if !errors.Is(err, ErrSignatureMismatch) && !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify = %v, want signature or malformed error", err)
	}
}
