/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for parsing JSON request bodies and validating the bound
struct against its `validate` tags, and integrates error handling to ensure data
format correctness before business logic processing.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
)

// MaxBodyBytes defines the maximum allowed size (1 MB) for a JSON request body,
// enforced via http.MaxBytesReader.
const MaxBodyBytes int64 = 1 << 20

// validate is the shared validator instance. Struct tag parsing is cached, so a
// single instance is reused for every request.
var validate = validator.New(validator.WithRequiredStructEnabled())

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// BindAndValidate binds the JSON body to dst and then checks it against the
// struct's `validate` tags. Validation failures are reported as ErrInvalidParams.
func BindAndValidate(r *http.Request, dst any) *errs.CustomError {
	if customErr := BindJSON(r, dst); customErr != nil {
		return customErr
	}

	if err := validate.StructCtx(r.Context(), dst); err != nil {
		logx.Warn("Request validation failed", "error", err.Error())
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}
