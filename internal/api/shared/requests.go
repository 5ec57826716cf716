package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxRequestBodyBytes caps request bodies. The mutation payloads are a few
// fields; anything near this limit is not a legitimate request.
const maxRequestBodyBytes = 1 << 20

var validate = validator.New()

// DecodeJSON decodes the request body into v. Unknown fields and trailing
// content are rejected so malformed payloads fail loudly instead of being
// silently ignored.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

// ValidateRequest validates v. Types that implement their own Validate
// method use it; everything else goes through struct tag validation.
func ValidateRequest(v interface{}) error {
	if checker, ok := v.(interface{ Validate() error }); ok {
		return checker.Validate()
	}
	return validate.Struct(v)
}
