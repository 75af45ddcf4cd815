package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/knjiznica/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// isBusy reports whether err is a SQLite busy or locked failure, the
// fate of a transaction that lost a write race.
func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// domainError maps a domain error onto an HTTP response. Validation and
// terminal-state errors come back as 422 with the error's message;
// consistency conflicts and lost write races as 409 so the client knows
// a retry is safe; lookups as 404. Anything else is a 500 with the
// detail kept out of the response.
func domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrBookNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrLoanNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrBookInactive),
		errors.Is(err, model.ErrUserInactive),
		errors.Is(err, model.ErrNoCopiesAvailable),
		errors.Is(err, model.ErrAlreadyBorrowed),
		errors.Is(err, model.ErrInvalidDueDate),
		errors.Is(err, model.ErrAlreadyReturned),
		errors.Is(err, model.ErrAlreadyCanceled):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrDuplicateActiveLoan),
		errors.Is(err, model.ErrCopiesOverflow),
		isBusy(err):
		jsonError(w, http.StatusConflict, "conflict, retry")
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
