package helpers

import (
	"errors"
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	var (
		bodyErr  *BodyError
		fieldErr validator.ValidationErrors
	)
	switch {
	case errors.As(err, &bodyErr), errors.As(err, &fieldErr), errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as JSON. Server errors are logged and replaced by a
// generic message.
func WriteError(rnd *render.Render, w http.ResponseWriter, log *logger.Logger, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var fieldErr validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErr):
		resp.Error = services.ErrValidation.Error()
		resp.Fields = FormatValidationErrors(fieldErr)
	case status == http.StatusForbidden:
		resp.Error = "forbidden"
	case status == http.StatusInternalServerError:
		log.Error("request failed", "error", err)
		resp.Error = "internal server error"
	}
	_ = rnd.JSON(w, status, resp)
}
