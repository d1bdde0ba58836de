package token

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exnebula/internal/app/user"
)

type stubResolver struct {
	identities map[string]user.Identity
}

func (s *stubResolver) FindBySubjectID(_ context.Context, subjectID string) (user.Identity, error) {
	identity, ok := s.identities[subjectID]
	if !ok {
		return user.Identity{}, ErrUnknownSubject
	}
	return identity, nil
}

func gateFixture(t *testing.T) (*Codec, http.Handler, *stubResolver) {
	t.Helper()

	c := newTestCodec(t)
	resolver := &stubResolver{identities: map[string]user.Identity{
		"user-1": {ID: "user-1", Name: "Alice", Email: "alice@example.com"},
	}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("identity missing from context inside protected handler")
		}
		_ = json.NewEncoder(w).Encode(identity)
	})

	return c, c.RequireIdentity(resolver)(next), resolver
}

func TestRequireIdentityMissingCredential(t *testing.T) {
	_, gate, _ := gateFixture(t)

	for _, header := range []string{"", "Token abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		gate.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want %d", header, rec.Code, http.StatusUnauthorized)
		}

		var body struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("header %q: decoding body: %v", header, err)
		}
		if body.Reason != "missing_credential" {
			t.Errorf("header %q: reason = %q, want missing_credential", header, body.Reason)
		}
	}
}

func TestRequireIdentityInvalidToken(t *testing.T) {
	c, gate, _ := gateFixture(t)

	other, err := NewCodec("different-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	forged, err := other.Issue("user-1", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, err := c.Issue("user-1", "Alice", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for name, tokenString := range map[string]string{
		"garbage": "nonsense",
		"forged":  forged,
		"expired": expired,
	} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rec := httptest.NewRecorder()

		gate.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", name, rec.Code, http.StatusUnauthorized)
		}

		var body struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decoding body: %v", name, err)
		}
		if body.Reason != "invalid_token" {
			t.Errorf("%s: reason = %q, want invalid_token", name, body.Reason)
		}
	}
}

func TestRequireIdentityUnknownSubject(t *testing.T) {
	c, gate, _ := gateFixture(t)

	tokenString, err := c.Issue("user-deleted", "Ghost", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Reason != "subject_not_found" {
		t.Errorf("reason = %q, want subject_not_found", body.Reason)
	}
}

func TestRequireIdentityAttachesIdentity(t *testing.T) {
	c, gate, _ := gateFixture(t)

	tokenString, err := c.Issue("user-1", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var identity user.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &identity); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if identity.ID != "user-1" || identity.Name != "Alice" {
		t.Errorf("identity = %+v, want user-1/Alice", identity)
	}
}
