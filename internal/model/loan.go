package model

import "time"

// Loan represents a single borrowing of a book copy by a user.
// A loan starts active and ends in exactly one terminal state:
// returned or canceled.
type Loan struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	IsCanceled bool       `json:"is_canceled"`
	CreatedAt  time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	UserName   string `json:"user_name,omitempty"`
	BookTitle  string `json:"book_title,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
}

// Returned reports whether the loan has been returned.
func (l *Loan) Returned() bool {
	return l.ReturnedAt != nil
}

// Active reports whether the loan is still open (not returned, not canceled).
func (l *Loan) Active() bool {
	return l.ReturnedAt == nil && !l.IsCanceled
}

// OverdueAt reports whether the loan is active and due strictly before
// the start of asOf's calendar day.
func (l *Loan) OverdueAt(asOf time.Time) bool {
	return l.Active() && l.DueDate.Before(StartOfDay(asOf))
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
