// Package borrow implements the borrowing lifecycle: how a copy of a book
// moves between the shelf and a member's hands. It is the only writer of
// loan state transitions and of a book's available_copies counter.
package borrow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// LoanPeriod is how long a member may keep a borrowed copy.
const LoanPeriod = 14 * 24 * time.Hour

// Engine orchestrates borrow, return and cancel operations. Each operation
// runs in a single transaction: the loan record and the copy counter change
// together or not at all.
type Engine struct {
	DB *sql.DB

	// Now supplies the current time. Defaults to time.Now; tests
	// inject a fixed clock.
	Now func() time.Time
}

// New creates an engine backed by db using the wall clock.
func New(db *sql.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Borrow lends one copy of a book to a user. Preconditions are checked in
// a fixed order so the first failing rule determines the error: book active,
// user active, copies available, no existing active loan for the pair.
// On success the new loan runs for LoanPeriod from now.
func (e *Engine) Borrow(ctx context.Context, userID, bookID int64) (*model.Loan, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var bookActive bool
	var available int
	err = tx.QueryRowContext(ctx,
		`SELECT is_active, available_copies FROM books WHERE id = ?`, bookID,
	).Scan(&bookActive, &available)
	if err == sql.ErrNoRows {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking book: %w", err)
	}
	if !bookActive {
		return nil, model.ErrBookInactive
	}

	var userActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_active FROM users WHERE id = ?`, userID,
	).Scan(&userActive)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking user: %w", err)
	}
	if !userActive {
		return nil, model.ErrUserInactive
	}

	if available == 0 {
		return nil, model.ErrNoCopiesAvailable
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans
		 WHERE user_id = ? AND book_id = ? AND returned_at IS NULL AND is_canceled = 0`,
		userID, bookID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("checking existing loans: %w", err)
	}
	if existing > 0 {
		return nil, model.ErrAlreadyBorrowed
	}

	now := e.now()
	loanID, err := store.CreateLoan(ctx, tx, userID, bookID, now, now.Add(LoanPeriod))
	if err != nil {
		// A concurrent borrower beat us past the count check; the unique
		// index caught it and the rollback undoes everything.
		if err == model.ErrDuplicateActiveLoan {
			return nil, model.ErrAlreadyBorrowed
		}
		return nil, err
	}

	if err := store.DecrementAvailable(ctx, tx, bookID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing borrow: %w", err)
	}

	return store.GetLoan(ctx, e.DB, loanID)
}

// Return marks a loan as returned and puts the copy back on the shelf.
func (e *Engine) Return(ctx context.Context, loanID int64) (*model.Loan, error) {
	return e.closeLoan(ctx, loanID, func(ctx context.Context, tx *sql.Tx) error {
		return store.MarkLoanReturned(ctx, tx, loanID, e.now())
	})
}

// Cancel voids a loan (a librarian-initiated correction) and puts the copy
// back on the shelf. Mechanically identical to Return for the ledger, but
// the loan ends canceled instead of returned.
func (e *Engine) Cancel(ctx context.Context, loanID int64) (*model.Loan, error) {
	return e.closeLoan(ctx, loanID, func(ctx context.Context, tx *sql.Tx) error {
		return store.MarkLoanCanceled(ctx, tx, loanID)
	})
}

// closeLoan moves a loan into a terminal state and increments the book's
// available copies, in one transaction.
func (e *Engine) closeLoan(ctx context.Context, loanID int64, mark func(context.Context, *sql.Tx) error) (*model.Loan, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var bookID int64
	err = tx.QueryRowContext(ctx,
		`SELECT book_id FROM loans WHERE id = ?`, loanID,
	).Scan(&bookID)
	if err == sql.ErrNoRows {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}

	if err := mark(ctx, tx); err != nil {
		return nil, err
	}

	if err := store.IncrementAvailable(ctx, tx, bookID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing loan close: %w", err)
	}

	return store.GetLoan(ctx, e.DB, loanID)
}
