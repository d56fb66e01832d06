package httpx

import (
	"errors"
	"net/http"

	"cantina/internal/common/logger"
	"cantina/internal/domain"
)

// WriteError maps domain sentinels onto HTTP statuses. Anything unrecognised is
// logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, lg *logger.Logger, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteProblem(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		WriteProblem(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteProblem(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		WriteProblem(w, http.StatusUnprocessableEntity, "unavailable", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteProblem(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		if lg != nil {
			lg.Error(action, err, nil)
		}
		WriteProblem(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
