package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "osfr/internal/errors"
)

var errMalformedForm = apperrors.Validation("malformed multipart body")

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(id), nil
}

// optionalUint parses a numeric form or query value; nil when absent.
func optionalUint(raw *string, field string) (*uint, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(*raw, 10, 32)
	if err != nil || v == 0 {
		return nil, apperrors.Validation(field + " must be a positive integer")
	}
	id := uint(v)
	return &id, nil
}

// formValue returns a submitted form field, or nil when the field was not sent.
func formValue(c echo.Context, key string) (*string, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, errMalformedForm
	}
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	v := values[0]
	return &v, nil
}
