/*
Package token implements the stateless signed-token codec and the request
authentication gate built on top of it.

Tokens are HS256 JWTs signed with a single server-held secret. Verification is
purely computational (the HMAC comparison inside the JWT library is
constant-time), so any number of server instances can verify tokens without
shared session state.
*/
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// IdentityExpiration is the default lifetime of an identity token.
	IdentityExpiration = 7 * 24 * time.Hour

	// TokenIssuer identifies the issuer of every token.
	TokenIssuer = "ExNebula-Server"
)

// Verification failures. Exactly one of these is returned by Verify for any
// token that does not check out.
var (
	// ErrTokenMalformed indicates the string is not a parseable token.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrSignatureMismatch indicates the signature does not verify against the server secret.
	ErrSignatureMismatch = errors.New("token signature mismatch")

	// ErrTokenExpired indicates a correctly signed token whose expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
)

// Codec issues and verifies signed identity tokens over a server-held secret.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec. An empty secret is a configuration fault and
// fails here, at startup, rather than on the first request.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token codec requires a non-empty signing secret")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue produces a signed token asserting the given subject for the ttl duration.
func (c *Codec) Issue(subjectID, name string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		ID:   subjectID,
		Name: name,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return tok.SignedString(c.secret)
}

// Verify parses and validates a token string, returning its claims.
// Failures map onto exactly one of ErrTokenMalformed, ErrSignatureMismatch,
// or ErrTokenExpired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})

	if err != nil {
		return nil, classifyError(err)
	}

	if !tok.Valid {
		return nil, ErrSignatureMismatch
	}

	return claims, nil
}

// classifyError maps the library's combined validation error onto the codec's
// failure taxonomy. A bad signature takes precedence over expiry so that a
// tampered token is never reported as merely expired.
func classifyError(err error) error {
	var vErr *jwt.ValidationError
	if !errors.As(err, &vErr) {
		return ErrTokenMalformed
	}

	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return ErrTokenMalformed
	case vErr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return ErrSignatureMismatch
	case vErr.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
