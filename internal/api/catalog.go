package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// AuthorsHandler handles author CRUD endpoints.
type AuthorsHandler struct {
	DB *sql.DB
}

type nameRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/authors.
func (h *AuthorsHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := store.ListAuthors(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list authors")
		return
	}
	if authors == nil {
		authors = []model.Author{}
	}
	jsonResponse(w, http.StatusOK, authors)
}

// Create handles POST /api/authors.
func (h *AuthorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	author, err := store.CreateAuthor(r.Context(), h.DB, req.Name)
	if err != nil {
		jsonError(w, http.StatusConflict, "failed to create author (name may be taken)")
		return
	}
	jsonResponse(w, http.StatusCreated, author)
}

// Update handles PUT /api/authors/{id}.
func (h *AuthorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid author id")
		return
	}

	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateAuthor(r.Context(), h.DB, id, req.Name); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update author")
		return
	}

	author, err := store.GetAuthor(r.Context(), h.DB, id)
	if err != nil || author == nil {
		jsonError(w, http.StatusNotFound, "author not found")
		return
	}
	jsonResponse(w, http.StatusOK, author)
}

// Delete handles DELETE /api/authors/{id} (soft delete).
func (h *AuthorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid author id")
		return
	}

	if err := store.DeactivateAuthor(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete author")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenresHandler handles genre CRUD endpoints.
type GenresHandler struct {
	DB *sql.DB
}

// List handles GET /api/genres.
func (h *GenresHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := store.ListGenres(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list genres")
		return
	}
	if genres == nil {
		genres = []model.Genre{}
	}
	jsonResponse(w, http.StatusOK, genres)
}

// Create handles POST /api/genres.
func (h *GenresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	genre, err := store.CreateGenre(r.Context(), h.DB, req.Name)
	if err != nil {
		jsonError(w, http.StatusConflict, "failed to create genre (name may be taken)")
		return
	}
	jsonResponse(w, http.StatusCreated, genre)
}

// Update handles PUT /api/genres/{id}.
func (h *GenresHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateGenre(r.Context(), h.DB, id, req.Name); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update genre")
		return
	}

	genre, err := store.GetGenre(r.Context(), h.DB, id)
	if err != nil || genre == nil {
		jsonError(w, http.StatusNotFound, "genre not found")
		return
	}
	jsonResponse(w, http.StatusOK, genre)
}

// Delete handles DELETE /api/genres/{id} (soft delete).
func (h *GenresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	if err := store.DeactivateGenre(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete genre")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
