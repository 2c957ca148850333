package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeyUser   contextKey = "userObject"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// BodyError is a request body that is not valid JSON for the target type.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string { return "invalid request body: " + e.Err.Error() }

func (e *BodyError) Unwrap() error { return e.Err }

// DecodeJSON reads the request body into dst and validates its struct tags.
// An empty body is allowed when optional is true.
func DecodeJSON(r *http.Request, dst interface{}, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if !optional {
				return &BodyError{Err: ErrEmptyBody}
			}
		} else {
			return &BodyError{Err: err}
		}
	}
	return validate.Struct(dst)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := fieldPath(err.Namespace())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", field)
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", field)
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", field)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", field, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", field, err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", field, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed the %s check.", field, err.Tag())
		}
	}
	return errorMessages
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// UserFromContext returns the user the identity middleware resolved, or nil.
func UserFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(ContextKeyUser).(*models.User)
	return user
}

func UserIDFromContext(r *http.Request) string {
	if user := UserFromContext(r); user != nil {
		return user.ID
	}
	return ""
}
