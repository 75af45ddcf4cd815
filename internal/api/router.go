package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/knjiznica/internal/borrow"
	"github.com/erazemk/knjiznica/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	engine := borrow.New(db)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	authorsHandler := &AuthorsHandler{DB: db}
	genresHandler := &GenresHandler{DB: db}
	booksHandler := &BooksHandler{DB: db}
	loansHandler := &LoansHandler{DB: db, Engine: engine}
	dashboardsHandler := &DashboardsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireLibrarian := RequireRole(model.RoleLibrarian)
	requireMember := RequireExactRole(model.RoleMember)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (librarian only).
	mux.Handle("GET /api/users", authMW(requireLibrarian(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireLibrarian(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireLibrarian(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireLibrarian(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireLibrarian(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireLibrarian(http.HandlerFunc(usersHandler.Delete))))

	// Authors: read (all roles), write (librarian).
	mux.Handle("GET /api/authors", authMW(http.HandlerFunc(authorsHandler.List)))
	mux.Handle("POST /api/authors", authMW(requireLibrarian(http.HandlerFunc(authorsHandler.Create))))
	mux.Handle("PUT /api/authors/{id}", authMW(requireLibrarian(http.HandlerFunc(authorsHandler.Update))))
	mux.Handle("DELETE /api/authors/{id}", authMW(requireLibrarian(http.HandlerFunc(authorsHandler.Delete))))

	// Genres: read (all roles), write (librarian).
	mux.Handle("GET /api/genres", authMW(http.HandlerFunc(genresHandler.List)))
	mux.Handle("POST /api/genres", authMW(requireLibrarian(http.HandlerFunc(genresHandler.Create))))
	mux.Handle("PUT /api/genres/{id}", authMW(requireLibrarian(http.HandlerFunc(genresHandler.Update))))
	mux.Handle("DELETE /api/genres/{id}", authMW(requireLibrarian(http.HandlerFunc(genresHandler.Delete))))

	// Books: read (all roles), write (librarian).
	mux.Handle("GET /api/books", authMW(http.HandlerFunc(booksHandler.List)))
	mux.Handle("POST /api/books", authMW(requireLibrarian(http.HandlerFunc(booksHandler.Create))))
	mux.Handle("GET /api/books/{id}", authMW(http.HandlerFunc(booksHandler.Get)))
	mux.Handle("PUT /api/books/{id}", authMW(requireLibrarian(http.HandlerFunc(booksHandler.Update))))
	mux.Handle("DELETE /api/books/{id}", authMW(requireLibrarian(http.HandlerFunc(booksHandler.Delete))))
	mux.Handle("PUT /api/books/{id}/cover", authMW(requireLibrarian(http.HandlerFunc(booksHandler.UploadCover))))
	mux.Handle("GET /api/books/{id}/cover", authMW(http.HandlerFunc(booksHandler.GetCover)))

	// Loans: members borrow for themselves, librarians manage the rest.
	mux.Handle("POST /api/loans", authMW(requireMember(http.HandlerFunc(loansHandler.Create))))
	mux.Handle("GET /api/loans", authMW(requireLibrarian(http.HandlerFunc(loansHandler.List))))
	mux.Handle("GET /api/loans/mine", authMW(requireMember(http.HandlerFunc(loansHandler.ListMine))))
	mux.Handle("PUT /api/loans/{id}/return", authMW(requireLibrarian(http.HandlerFunc(loansHandler.Return))))
	mux.Handle("PUT /api/loans/{id}/cancel", authMW(requireLibrarian(http.HandlerFunc(loansHandler.Cancel))))

	// Dashboards.
	mux.Handle("GET /api/dashboards/librarian", authMW(requireLibrarian(http.HandlerFunc(dashboardsHandler.Librarian))))
	mux.Handle("GET /api/dashboards/member", authMW(requireMember(http.HandlerFunc(dashboardsHandler.Member))))

	return mux
}
