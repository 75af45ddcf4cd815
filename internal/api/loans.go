package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/knjiznica/internal/borrow"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// LoansHandler handles borrowing endpoints. All loan state changes go
// through the engine; the handler only resolves identity and authorization.
type LoansHandler struct {
	DB     *sql.DB
	Engine *borrow.Engine
}

type borrowRequest struct {
	BookID int64 `json:"book_id"`
}

// Create handles POST /api/loans: the authenticated member borrows a book.
func (h *LoansHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req borrowRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BookID == 0 {
		jsonError(w, http.StatusBadRequest, "book_id required")
		return
	}

	loan, err := h.Engine.Borrow(r.Context(), claims.UserID, req.BookID)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("book borrowed", "user", claims.UserID, "book", req.BookID, "loan", loan.ID)
	jsonResponse(w, http.StatusCreated, loan)
}

// List handles GET /api/loans (librarian only).
func (h *LoansHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := store.ListLoans(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list loans")
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	jsonResponse(w, http.StatusOK, loans)
}

// ListMine handles GET /api/loans/mine: the member's own active loans.
func (h *LoansHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	loans, err := store.ListLoansByUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list loans")
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	jsonResponse(w, http.StatusOK, loans)
}

// Return handles PUT /api/loans/{id}/return (librarian only).
func (h *LoansHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, err := h.Engine.Return(r.Context(), id)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("book returned", "loan", loan.ID, "book", loan.BookID)
	jsonResponse(w, http.StatusOK, loan)
}

// Cancel handles PUT /api/loans/{id}/cancel (librarian only).
func (h *LoansHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, err := h.Engine.Cancel(r.Context(), id)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("loan canceled", "loan", loan.ID, "book", loan.BookID)
	jsonResponse(w, http.StatusOK, loan)
}
