/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to CustomError templates, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Reason: "invalid_params", Message: "Invalid request parameters: %s.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Reason: "unsupported_media_type", Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Reason: "invalid_json", Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Reason: "extra_content", Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimited:          {Code: ErrRateLimited, Reason: "rate_limited", Message: "Too many requests from this IP, please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat and Content Business Logic Errors
	ErrRoomNotFound:        {Code: ErrRoomNotFound, Reason: "room_not_found", Message: "Chat room not found.", Status: http.StatusNotFound},
	ErrNotMember:           {Code: ErrNotMember, Reason: "not_member", Message: "Join the room before sending messages."},
	ErrUnauthenticatedJoin: {Code: ErrUnauthenticatedJoin, Reason: "unauthenticated", Message: "Please sign in to join the community chat."},
	ErrMessageTooLong:      {Code: ErrMessageTooLong, Reason: "message_too_long", Message: "Message is too long."},
	ErrPublishThrottled:    {Code: ErrPublishThrottled, Reason: "publish_throttled", Message: "You are sending messages too quickly."},

	// 3xxx: Identity and Credential Errors
	ErrMissingCredential:  {Code: ErrMissingCredential, Reason: "missing_credential", Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidToken:       {Code: ErrInvalidToken, Reason: "invalid_token", Message: "Your session is invalid or has expired.", Status: http.StatusUnauthorized},
	ErrSubjectNotFound:    {Code: ErrSubjectNotFound, Reason: "subject_not_found", Message: "Account not found.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Reason: "invalid_credentials", Message: "Invalid credentials.", Status: http.StatusUnauthorized},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Reason: "user_exists", Message: "User already exists.", Status: http.StatusConflict},
	ErrInvalidName:        {Code: ErrInvalidName, Reason: "invalid_name", Message: "Name must be at least 2 characters.", Status: http.StatusBadRequest},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Reason: "invalid_email", Message: "Please provide a valid email.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Reason: "invalid_password", Message: "Password must be at least 6 characters.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Reason: "internal_error", Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
