package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/knjiznica/internal/model"
)

// seedBook creates an author, a genre, and a book with the given copy count.
func seedBook(t *testing.T, db *sql.DB, title string, copies int) *model.Book {
	t.Helper()
	ctx := context.Background()

	author, err := CreateAuthor(ctx, db, title+" Author")
	if err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}
	genre, err := CreateGenre(ctx, db, title+" Genre")
	if err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	book, err := CreateBook(ctx, db, title, author.ID, genre.ID, "isbn-"+title, copies)
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	return book
}

// seedMember creates an active member.
func seedMember(t *testing.T, db *sql.DB, name string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), db, name, name+"@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// mustBegin starts a transaction and registers a rollback cleanup.
func mustBegin(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}
