/*
Package req provides helper functions for HTTP request parsing and data binding.

It wraps JSON decoding with strict validation (unknown field rejection,
trailing-content detection, body size limits) so handlers only see well-formed input.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"exnebula/internal/pkg/errs"
)

// MaxBodyBytes caps the size of JSON request bodies the server will read.
const MaxBodyBytes int64 = 1 << 20 // 1 MB

// BindJSON binds the JSON body of the request to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
