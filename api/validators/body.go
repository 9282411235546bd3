// Package validators decodes and validates request bodies.
package validators

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lineflow-mfg/lineflow-backend/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeBody parses the JSON body into dst and runs struct validation.
// Unknown fields are rejected so typos fail loudly.
func DecodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New(errors.CodeValidation, "invalid request body: %s", err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if ok := errorsAs(err, &invalid); ok {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fe.Field())
			}
			return errors.New(errors.CodeValidation, "invalid fields: %s", strings.Join(fields, ", "))
		}
		return errors.New(errors.CodeValidation, "invalid request body")
	}
	return nil
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok {
		*target = v
	}
	return ok
}
