package token

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"exnebula/internal/app/user"
	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/resp"
)

// ErrUnknownSubject is returned by a Resolver when the token's subject no
// longer exists in the credential store.
var ErrUnknownSubject = errors.New("unknown subject")

// Resolver looks up the live identity behind a verified token subject.
// The gate depends on this behavior, not on any particular store.
type Resolver interface {
	FindBySubjectID(ctx context.Context, subjectID string) (user.Identity, error)
}

// contextKey prevents collisions with context values set by other packages.
type contextKey string

// contextIdentityKey stores the resolved user.Identity in the request context.
const contextIdentityKey contextKey = "auth_identity"

// BearerFromRequest extracts the bearer credential from the Authorization
// header. It returns the empty string when no well-formed credential is present.
func BearerFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// RequireIdentity is the authentication gate for protected routes.
// It extracts the bearer credential, verifies it via the codec, resolves the
// subject against the credential store, and attaches the identity to the
// request context. Every failure is terminal for the request: a missing
// credential, a failed verification, and a vanished subject each produce a
// 401 with the corresponding reason code. Nothing is retried and nothing is
// downgraded to anonymous.
func (c *Codec) RequireIdentity(resolver Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := BearerFromRequest(r)
			if tokenString == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrMissingCredential))
				return
			}

			claims, err := c.Verify(tokenString)
			if err != nil {
				logx.Warn("Rejected request with invalid token", "error", err)
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
				return
			}

			identity, err := resolver.FindBySubjectID(r.Context(), claims.ID)
			if err != nil {
				if errors.Is(err, ErrUnknownSubject) {
					logx.Warn("Rejected token for vanished subject", "subject_id", claims.ID)
					resp.RespondError(w, r, errs.NewError(errs.ErrSubjectNotFound))
					return
				}

				logx.Error(err, "Credential store lookup failed during authentication", "subject_id", claims.ID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity attached by
// RequireIdentity. The boolean is false on routes the gate never saw.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(user.Identity)
	return identity, ok
}
