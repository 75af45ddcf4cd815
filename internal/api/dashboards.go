package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/knjiznica/internal/report"
)

// DashboardsHandler serves the librarian and member dashboard summaries.
type DashboardsHandler struct {
	DB *sql.DB

	// Now supplies the evaluation time for overdue computation.
	// Defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

func (h *DashboardsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Librarian handles GET /api/dashboards/librarian.
func (h *DashboardsHandler) Librarian(w http.ResponseWriter, r *http.Request) {
	data, err := report.LibrarianSummary(r.Context(), h.DB, h.now())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	jsonResponse(w, http.StatusOK, data)
}

// Member handles GET /api/dashboards/member.
func (h *DashboardsHandler) Member(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	data, err := report.MemberSummary(r.Context(), h.DB, claims.UserID, h.now())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	jsonResponse(w, http.StatusOK, data)
}
