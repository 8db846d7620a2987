package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronov/retrodesk/internal/common"
)

// errorResponse is the only error body shape clients ever see. No stack
// traces and no library-internal detail cross this boundary.
type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

// writeError maps the service error taxonomy onto statuses. Anything not in
// the taxonomy is reported as a generic internal error.
func writeError(w http.ResponseWriter, err error) {
	var validation *common.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "ValidationError",
			Message: validation.Error(),
			Fields:  validation.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeErrorMessage(w, http.StatusNotFound, "NotFound", "resource not found")
	case errors.Is(err, common.ErrorUsernameTaken),
		errors.Is(err, common.ErrorEmailTaken),
		errors.Is(err, common.ErrorBadRequest):
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized", common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized", "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		writeErrorMessage(w, http.StatusForbidden, "Forbidden", "access denied")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "InternalServerError", "internal error")
	}
}
