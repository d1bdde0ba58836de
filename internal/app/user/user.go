/*
Package user contains the core data structure for an authenticated participant.

An Identity is derived from a verified token plus a credential-store lookup and
is attached to a request or connection context for its lifetime; it is never
persisted by the real-time core.
*/
package user

// Identity represents a resolved, authenticated participant.
type Identity struct {
	// ID is the subject identifier carried by the signed token.
	ID string `json:"id"`

	// Name is the display name shown to other chat participants.
	Name string `json:"name"`

	// Email is the account's login email.
	Email string `json:"email"`
}
