package httpapi

import (
	"errors"
	"net/http"

	"github.com/tinoosan/cashflow/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }

// writeDomainErr maps sentinel errors from the service layer to statuses.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error(), "not_found")
	case errors.Is(err, errs.ErrUnknownCategory):
		writeErr(w, http.StatusBadRequest, err.Error(), "unknown_category")
	case errors.Is(err, errs.ErrInvalid):
		writeErr(w, http.StatusBadRequest, err.Error(), "invalid")
	default:
		writeErr(w, http.StatusInternalServerError, err.Error(), "internal")
	}
}
