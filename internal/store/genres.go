package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// CreateGenre creates a new genre.
func CreateGenre(ctx context.Context, db *sql.DB, name string) (*model.Genre, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO genres (name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating genre: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting genre id: %w", err)
	}

	return GetGenre(ctx, db, id)
}

// GetGenre returns a genre by ID.
func GetGenre(ctx context.Context, db *sql.DB, id int64) (*model.Genre, error) {
	g := &model.Genre{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, is_active, created_at FROM genres WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name, &g.IsActive, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting genre: %w", err)
	}
	return g, nil
}

// ListGenres returns all active genres.
func ListGenres(ctx context.Context, db *sql.DB) ([]model.Genre, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, is_active, created_at FROM genres
		 WHERE is_active = 1 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	defer rows.Close()

	var genres []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.IsActive, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// UpdateGenre updates a genre's name.
func UpdateGenre(ctx context.Context, db *sql.DB, id int64, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE genres SET name = ? WHERE id = ? AND is_active = 1`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("updating genre: %w", err)
	}
	return nil
}

// DeactivateGenre soft-deletes a genre.
func DeactivateGenre(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE genres SET is_active = 0 WHERE id = ? AND is_active = 1`, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating genre: %w", err)
	}
	return nil
}
