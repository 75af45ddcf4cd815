package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// CreateAuthor creates a new author.
func CreateAuthor(ctx context.Context, db *sql.DB, name string) (*model.Author, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO authors (name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating author: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting author id: %w", err)
	}

	return GetAuthor(ctx, db, id)
}

// GetAuthor returns an author by ID.
func GetAuthor(ctx context.Context, db *sql.DB, id int64) (*model.Author, error) {
	a := &model.Author{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, is_active, created_at FROM authors WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.IsActive, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting author: %w", err)
	}
	return a, nil
}

// ListAuthors returns all active authors.
func ListAuthors(ctx context.Context, db *sql.DB) ([]model.Author, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, is_active, created_at FROM authors
		 WHERE is_active = 1 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// UpdateAuthor updates an author's name.
func UpdateAuthor(ctx context.Context, db *sql.DB, id int64, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE authors SET name = ? WHERE id = ? AND is_active = 1`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("updating author: %w", err)
	}
	return nil
}

// DeactivateAuthor soft-deletes an author. Books keep their reference.
func DeactivateAuthor(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE authors SET is_active = 0 WHERE id = ? AND is_active = 1`, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating author: %w", err)
	}
	return nil
}
