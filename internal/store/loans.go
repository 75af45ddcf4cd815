package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
)

const loanColumns = `l.id, l.user_id, l.book_id, l.borrowed_at, l.due_date,
	l.returned_at, l.is_canceled, l.created_at,
	u.name AS user_name, b.title AS book_title, a.name AS author_name`

const loanJoins = `FROM loans l
	JOIN users u ON u.id = l.user_id
	JOIN books b ON b.id = l.book_id
	JOIN authors a ON a.id = b.author_id`

// CreateLoan inserts a new loan record on the caller's transaction.
// The partial unique index on (user_id, book_id) over active rows is the
// backstop for concurrent creators; losers get model.ErrDuplicateActiveLoan.
func CreateLoan(ctx context.Context, tx *sql.Tx, userID, bookID int64, borrowedAt, dueDate time.Time) (int64, error) {
	if dueDate.Before(borrowedAt) {
		return 0, model.ErrInvalidDueDate
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO loans (user_id, book_id, borrowed_at, due_date)
		 VALUES (?, ?, ?, ?)`,
		userID, bookID, borrowedAt, dueDate,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, model.ErrDuplicateActiveLoan
		}
		return 0, fmt.Errorf("creating loan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting loan id: %w", err)
	}
	return id, nil
}

// MarkLoanReturned sets returned_at on an active loan, on the caller's
// transaction. Fails if the loan is already returned or canceled.
func MarkLoanReturned(ctx context.Context, tx *sql.Tx, loanID int64, returnedAt time.Time) error {
	loan, err := getLoanTx(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if err := requireActive(loan); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE loans SET returned_at = ? WHERE id = ?`, returnedAt, loanID,
	)
	if err != nil {
		return fmt.Errorf("marking loan returned: %w", err)
	}
	return nil
}

// MarkLoanCanceled sets is_canceled on an active loan, on the caller's
// transaction. Fails if the loan is already returned or canceled.
func MarkLoanCanceled(ctx context.Context, tx *sql.Tx, loanID int64) error {
	loan, err := getLoanTx(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if err := requireActive(loan); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE loans SET is_canceled = 1 WHERE id = ?`, loanID,
	)
	if err != nil {
		return fmt.Errorf("marking loan canceled: %w", err)
	}
	return nil
}

// requireActive returns the terminal-state error matching the loan's state,
// or nil if the loan is still active. Returned wins over canceled so a
// returned-then-canceled request reports the state that ended the loan.
func requireActive(loan *model.Loan) error {
	if loan.Returned() {
		return model.ErrAlreadyReturned
	}
	if loan.IsCanceled {
		return model.ErrAlreadyCanceled
	}
	return nil
}

// GetLoan returns a loan by ID with user, book and author names joined.
func GetLoan(ctx context.Context, db *sql.DB, id int64) (*model.Loan, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+` WHERE l.id = ?`, id)
	return scanLoanRow(row)
}

// getLoanTx is GetLoan on a transaction, so state checks see uncommitted
// writes from the same operation.
func getLoanTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Loan, error) {
	loan := &model.Loan{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, user_id, book_id, borrowed_at, due_date, returned_at, is_canceled, created_at
		 FROM loans WHERE id = ?`, id,
	).Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowedAt, &loan.DueDate,
		&loan.ReturnedAt, &loan.IsCanceled, &loan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	return loan, nil
}

// FindActiveLoan returns the active loan for a (user, book) pair, or nil.
func FindActiveLoan(ctx context.Context, db *sql.DB, userID, bookID int64) (*model.Loan, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+`
		 WHERE l.user_id = ? AND l.book_id = ?
		   AND l.returned_at IS NULL AND l.is_canceled = 0`,
		userID, bookID)
	return scanLoanRow(row)
}

// ListLoans returns all loans, newest first.
func ListLoans(ctx context.Context, db *sql.DB) ([]model.Loan, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+` ORDER BY l.borrowed_at DESC, l.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListActiveLoans returns all loans that are neither returned nor canceled.
func ListActiveLoans(ctx context.Context, db *sql.DB) ([]model.Loan, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+`
		 WHERE l.returned_at IS NULL AND l.is_canceled = 0
		 ORDER BY l.due_date, l.id`)
	if err != nil {
		return nil, fmt.Errorf("listing active loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListOverdueLoans returns active loans due strictly before asOf,
// ordered by due date ascending.
func ListOverdueLoans(ctx context.Context, db *sql.DB, asOf time.Time) ([]model.Loan, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+`
		 WHERE l.returned_at IS NULL AND l.is_canceled = 0 AND l.due_date < ?
		 ORDER BY l.due_date, l.id`, asOf)
	if err != nil {
		return nil, fmt.Errorf("listing overdue loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListLoansByUser returns a user's active loans, ordered by due date.
func ListLoansByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Loan, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+`
		 WHERE l.user_id = ? AND l.returned_at IS NULL AND l.is_canceled = 0
		 ORDER BY l.due_date, l.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans by user: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// CountActiveLoans returns the number of active loans.
func CountActiveLoans(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans WHERE returned_at IS NULL AND is_canceled = 0`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active loans: %w", err)
	}
	return count, nil
}

// CountLoansDueBetween returns the number of active loans with a due date
// in [from, to).
func CountLoansDueBetween(ctx context.Context, db *sql.DB, from, to time.Time) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans
		 WHERE returned_at IS NULL AND is_canceled = 0
		   AND due_date >= ? AND due_date < ?`, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting due loans: %w", err)
	}
	return count, nil
}

func scanLoanRow(row *sql.Row) (*model.Loan, error) {
	loan := &model.Loan{}
	err := row.Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowedAt, &loan.DueDate,
		&loan.ReturnedAt, &loan.IsCanceled, &loan.CreatedAt,
		&loan.UserName, &loan.BookTitle, &loan.AuthorName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	return loan, nil
}

func scanLoans(rows *sql.Rows) ([]model.Loan, error) {
	var loans []model.Loan
	for rows.Next() {
		var loan model.Loan
		if err := rows.Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowedAt, &loan.DueDate,
			&loan.ReturnedAt, &loan.IsCanceled, &loan.CreatedAt,
			&loan.UserName, &loan.BookTitle, &loan.AuthorName); err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
