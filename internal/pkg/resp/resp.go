/*
Package resp provides helper functions for constructing and sending standardized HTTP JSON responses.

It defines a unified JSON response structure carrying a business code, a
machine-readable reason, a message, and optional data, with wrappers for both
success and error responses.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
)

// JSONResponse defines the standardized JSON response envelope.
type JSONResponse struct {
	// Code is the business status code (0 for success, see errs package).
	Code int `json:"code"`

	// Reason is the machine-readable failure identifier; empty on success.
	Reason string `json:"reason,omitempty"`

	// Message is the client-friendly status description or error message.
	Message string `json:"message"`

	// Data is the optional response payload.
	Data any `json:"data,omitempty"`
}

// RespondJSON sets the Content-Type and sends the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful HTTP response (HTTP 200 OK).
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	res := JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	RespondJSON(w, r, http.StatusOK, res)
}

// RespondError sends an HTTP response describing the custom error.
// Structured details attached to the error (e.g. retryAfter) travel in Data.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	var data any
	if len(customErr.Meta) > 0 {
		data = customErr.Meta
	}

	res := JSONResponse{
		Code:    customErr.Code,
		Reason:  customErr.Reason,
		Message: customErr.Message,
		Data:    data,
	}
	RespondJSON(w, r, customErr.Status, res)
}
