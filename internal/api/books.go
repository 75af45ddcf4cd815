package api

import (
	"database/sql"
	"io"
	"net/http"
	"strconv"

	"github.com/erazemk/knjiznica/internal/imaging"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// maxCoverUpload limits cover upload request bodies.
const maxCoverUpload = 10 << 20 // 10 MiB

// BooksHandler handles book CRUD and cover endpoints.
type BooksHandler struct {
	DB *sql.DB
}

type createBookRequest struct {
	Title       string `json:"title"`
	AuthorID    int64  `json:"author_id"`
	GenreID     int64  `json:"genre_id"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
}

type updateBookRequest struct {
	Title    string `json:"title"`
	AuthorID int64  `json:"author_id"`
	GenreID  int64  `json:"genre_id"`
	ISBN     string `json:"isbn"`
}

// List handles GET /api/books. The optional query parameter filters by
// substring across title, author name and genre name.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	books, err := store.ListBooks(r.Context(), h.DB, query)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	jsonResponse(w, http.StatusOK, books)
}

// Create handles POST /api/books.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.ISBN == "" {
		jsonError(w, http.StatusBadRequest, "title and isbn required")
		return
	}
	if req.TotalCopies < 0 {
		jsonError(w, http.StatusBadRequest, "total copies must not be negative")
		return
	}

	book, err := store.CreateBook(r.Context(), h.DB, req.Title, req.AuthorID, req.GenreID, req.ISBN, req.TotalCopies)
	if err != nil {
		jsonError(w, http.StatusConflict, "failed to create book (isbn may be taken)")
		return
	}
	jsonResponse(w, http.StatusCreated, book)
}

// Get handles GET /api/books/{id}.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	book, err := store.GetBook(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get book")
		return
	}
	if book == nil {
		jsonError(w, http.StatusNotFound, "book not found")
		return
	}
	jsonResponse(w, http.StatusOK, book)
}

// Update handles PUT /api/books/{id}.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req updateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.ISBN == "" {
		jsonError(w, http.StatusBadRequest, "title and isbn required")
		return
	}

	if err := store.UpdateBook(r.Context(), h.DB, id, req.Title, req.AuthorID, req.GenreID, req.ISBN); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update book")
		return
	}

	book, err := store.GetBook(r.Context(), h.DB, id)
	if err != nil || book == nil {
		jsonError(w, http.StatusNotFound, "book not found")
		return
	}
	jsonResponse(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id} (soft delete).
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	if err := store.DeactivateBook(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadCover handles PUT /api/books/{id}/cover.
func (h *BooksHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	book, err := store.GetBook(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get book")
		return
	}
	if book == nil {
		jsonError(w, http.StatusNotFound, "book not found")
		return
	}

	defer r.Body.Close()
	result, err := imaging.ProcessCover(io.LimitReader(r.Body, maxCoverUpload))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetBookCover(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "cover updated"})
}

// GetCover handles GET /api/books/{id}/cover.
func (h *BooksHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	cover, mime, err := store.GetBookCover(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get cover")
		return
	}
	if len(cover) == 0 {
		jsonError(w, http.StatusNotFound, "no cover")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(cover)
}
