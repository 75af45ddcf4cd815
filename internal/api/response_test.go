package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erazemk/knjiznica/internal/model"
)

func TestDomainErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"book not found", model.ErrBookNotFound, http.StatusNotFound},
		{"user not found", model.ErrUserNotFound, http.StatusNotFound},
		{"loan not found", model.ErrLoanNotFound, http.StatusNotFound},
		{"book inactive", model.ErrBookInactive, http.StatusUnprocessableEntity},
		{"no copies", model.ErrNoCopiesAvailable, http.StatusUnprocessableEntity},
		{"already borrowed", model.ErrAlreadyBorrowed, http.StatusUnprocessableEntity},
		{"already returned", model.ErrAlreadyReturned, http.StatusUnprocessableEntity},
		{"already canceled", model.ErrAlreadyCanceled, http.StatusUnprocessableEntity},
		{"duplicate loan", model.ErrDuplicateActiveLoan, http.StatusConflict},
		{"copies overflow", model.ErrCopiesOverflow, http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("borrowing: %w", model.ErrNoCopiesAvailable), http.StatusUnprocessableEntity},
		{"busy database", fmt.Errorf("committing borrow: SQLITE_BUSY: database is locked (5)"), http.StatusConflict},
		{"locked database", fmt.Errorf("beginning transaction: database is locked"), http.StatusConflict},
		{"unknown error", fmt.Errorf("disk exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			domainError(rec, tt.err)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
