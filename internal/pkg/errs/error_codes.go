/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system failures both inside the
server and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimited indicates that the origin exceeded its request quota
	// for the current admission window.
	ErrRateLimited = 1007
)

// 2xxx: Chat and Content Business Logic Errors
const (
	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = 2101

	// ErrNotMember indicates an attempt to publish to a room the connection never joined.
	ErrNotMember = 2102

	// ErrUnauthenticatedJoin indicates that an anonymous connection attempted to join a room.
	ErrUnauthenticatedJoin = 2103

	// ErrMessageTooLong indicates that the message body exceeded the configured maximum length.
	ErrMessageTooLong = 2201

	// ErrPublishThrottled indicates that a connection exceeded its publish rate budget.
	ErrPublishThrottled = 2202
)

// 3xxx: Identity and Credential Errors
const (
	// ErrMissingCredential indicates that no bearer credential was presented.
	ErrMissingCredential = 3001

	// ErrInvalidToken indicates that the presented credential failed verification
	// (malformed, bad signature, or expired).
	ErrInvalidToken = 3002

	// ErrSubjectNotFound indicates a verified token whose subject no longer exists.
	ErrSubjectNotFound = 3003

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = 3004

	// ErrUserAlreadyExists indicates registration with an email that is already taken.
	ErrUserAlreadyExists = 3005

	// ErrInvalidName indicates a registration name that failed validation.
	ErrInvalidName = 3006

	// ErrInvalidEmail indicates an email address that failed validation.
	ErrInvalidEmail = 3007

	// ErrInvalidPassword indicates a password that failed validation.
	ErrInvalidPassword = 3008
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000
)
