package token

import "github.com/golang-jwt/jwt"

// Claims defines the JSON Web Token claims issued by the server.
// The subject travels in the custom "id" claim; the standard claims carry
// issued-at, expiry, and issuer for validity checks.
type Claims struct {
	jwt.StandardClaims

	// ID is the subject identifier of the account the token was issued for.
	ID string `json:"id"`

	// Name is the display name snapshot taken at issuance. It is a
	// convenience for clients only; the credential store stays authoritative.
	Name string `json:"name,omitempty"`
}
