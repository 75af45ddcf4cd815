package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

const bookColumns = `b.id, b.title, b.author_id, b.genre_id, b.isbn,
	b.total_copies, b.available_copies, b.is_active, b.cover_mime,
	b.created_at, b.updated_at, a.name AS author_name, g.name AS genre_name`

// CreateBook creates a new book. Available copies start equal to total copies.
func CreateBook(ctx context.Context, db *sql.DB, title string, authorID, genreID int64, isbn string, totalCopies int) (*model.Book, error) {
	if totalCopies < 0 {
		return nil, fmt.Errorf("total copies must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO books (title, author_id, genre_id, isbn, total_copies, available_copies)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, authorID, genreID, isbn, totalCopies, totalCopies,
	)
	if err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting book id: %w", err)
	}

	return GetBook(ctx, db, id)
}

// GetBook returns a book by ID with author and genre names joined.
func GetBook(ctx context.Context, db *sql.DB, id int64) (*model.Book, error) {
	b := &model.Book{}
	var coverMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+bookColumns+`
		 FROM books b
		 JOIN authors a ON a.id = b.author_id
		 JOIN genres g ON g.id = b.genre_id
		 WHERE b.id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.AuthorID, &b.GenreID, &b.ISBN,
		&b.TotalCopies, &b.AvailableCopies, &b.IsActive, &coverMime,
		&b.CreatedAt, &b.UpdatedAt, &b.AuthorName, &b.GenreName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting book: %w", err)
	}
	b.CoverMime = coverMime.String
	return b, nil
}

// ListBooks returns active books. If query is non-empty, results are
// limited to books whose title, author name or genre name contains it
// (case-insensitive substring match).
func ListBooks(ctx context.Context, db *sql.DB, query string) ([]model.Book, error) {
	sqlQuery := `SELECT ` + bookColumns + `
		 FROM books b
		 JOIN authors a ON a.id = b.author_id
		 JOIN genres g ON g.id = b.genre_id
		 WHERE b.is_active = 1`
	var args []any

	if query != "" {
		sqlQuery += ` AND (b.title LIKE ? OR a.name LIKE ? OR g.name LIKE ?)`
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern, pattern)
	}

	sqlQuery += ` ORDER BY b.title`

	rows, err := db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		var coverMime sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.GenreID, &b.ISBN,
			&b.TotalCopies, &b.AvailableCopies, &b.IsActive, &coverMime,
			&b.CreatedAt, &b.UpdatedAt, &b.AuthorName, &b.GenreName); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		b.CoverMime = coverMime.String
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook updates a book's metadata. Copy counters are not touched here;
// available_copies belongs to the borrowing engine.
func UpdateBook(ctx context.Context, db *sql.DB, id int64, title string, authorID, genreID int64, isbn string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE books SET title = ?, author_id = ?, genre_id = ?, isbn = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_active = 1`,
		title, authorID, genreID, isbn, id,
	)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	return nil
}

// DeactivateBook soft-deletes a book. Existing loans keep their reference
// and can still be returned.
func DeactivateBook(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE books SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_active = 1`, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating book: %w", err)
	}
	return nil
}

// SetBookCover sets a book's cover image data.
func SetBookCover(ctx context.Context, db *sql.DB, id int64, cover []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE books SET cover = ?, cover_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_active = 1`,
		cover, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting book cover: %w", err)
	}
	return nil
}

// GetBookCover returns a book's cover image data and MIME type.
func GetBookCover(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var cover []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT cover, cover_mime FROM books WHERE id = ?`, id,
	).Scan(&cover, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting book cover: %w", err)
	}
	return cover, mime.String, nil
}
