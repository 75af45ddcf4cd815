// Package report builds read-only dashboard summaries from the loan and
// book tables. It never mutates engine state.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// dueDateFormat matches the "Aug 31, 2026" style shown on dashboards.
const dueDateFormat = "Jan 02, 2006"

// OverdueEntry is one row of the librarian's overdue list.
type OverdueEntry struct {
	UserName  string `json:"user_name"`
	BookTitle string `json:"book_title"`
	DueDate   string `json:"due_date"`
}

// BorrowedEntry is one row of a member's borrowed-books list.
type BorrowedEntry struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	DueDate string `json:"due_date"`
}

// LibrarianData summarizes library-wide lending activity.
type LibrarianData struct {
	TotalBooks         int            `json:"total_books"`
	TotalBorrowedBooks int            `json:"total_borrowed_books"`
	BooksDueToday      int            `json:"books_due_today"`
	OverdueLoans       []OverdueEntry `json:"overdue_loans"`
}

// MemberData summarizes one member's current loans.
type MemberData struct {
	BorrowedBooks []BorrowedEntry `json:"borrowed_books"`
	OverdueBooks  []BorrowedEntry `json:"overdue_books"`
}

// LibrarianSummary returns counts of active books and loans, loans due on
// now's calendar day, and the overdue list ordered by due date ascending.
// Overdueness is day-granular: due strictly before the start of today.
func LibrarianSummary(ctx context.Context, db *sql.DB, now time.Time) (*LibrarianData, error) {
	var totalBooks int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE is_active = 1`,
	).Scan(&totalBooks)
	if err != nil {
		return nil, fmt.Errorf("counting active books: %w", err)
	}

	totalLoans, err := store.CountActiveLoans(ctx, db)
	if err != nil {
		return nil, err
	}

	today := model.StartOfDay(now)
	dueToday, err := store.CountLoansDueBetween(ctx, db, today, today.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	overdue, err := store.ListOverdueLoans(ctx, db, today)
	if err != nil {
		return nil, err
	}

	data := &LibrarianData{
		TotalBooks:         totalBooks,
		TotalBorrowedBooks: totalLoans,
		BooksDueToday:      dueToday,
		OverdueLoans:       []OverdueEntry{},
	}
	for _, loan := range overdue {
		data.OverdueLoans = append(data.OverdueLoans, OverdueEntry{
			UserName:  loan.UserName,
			BookTitle: loan.BookTitle,
			DueDate:   loan.DueDate.Format(dueDateFormat),
		})
	}
	return data, nil
}

// MemberSummary returns a member's active loans and the overdue subset.
func MemberSummary(ctx context.Context, db *sql.DB, userID int64, now time.Time) (*MemberData, error) {
	loans, err := store.ListLoansByUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	data := &MemberData{
		BorrowedBooks: []BorrowedEntry{},
		OverdueBooks:  []BorrowedEntry{},
	}
	for _, loan := range loans {
		entry := BorrowedEntry{
			Title:   loan.BookTitle,
			Author:  loan.AuthorName,
			DueDate: loan.DueDate.Format(dueDateFormat),
		}
		data.BorrowedBooks = append(data.BorrowedBooks, entry)
		if loan.OverdueAt(now) {
			data.OverdueBooks = append(data.OverdueBooks, entry)
		}
	}
	return data, nil
}
