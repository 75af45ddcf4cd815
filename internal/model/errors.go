package model

import "errors"

// Domain errors returned by the stores and the borrowing engine.
// Handlers map these onto HTTP statuses; everything else is treated
// as an internal error.
var (
	// Validation errors: expected, recoverable by the caller.
	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrBookInactive    = errors.New("book is not active")
	ErrUserInactive    = errors.New("user is not active")
	ErrAlreadyBorrowed = errors.New("user has already borrowed this book")
	ErrInvalidDueDate  = errors.New("due date cannot be before borrow date")

	// Consistency errors: a concurrency conflict or invariant violation.
	// The operation has been rolled back; the caller may retry.
	ErrNoCopiesAvailable   = errors.New("no copies available")
	ErrCopiesOverflow      = errors.New("available copies would exceed total copies")
	ErrDuplicateActiveLoan = errors.New("an active loan already exists for this user and book")

	// Terminal-state errors: the loan has already left its active state.
	ErrAlreadyReturned = errors.New("loan has already been returned")
	ErrAlreadyCanceled = errors.New("loan has already been canceled")
)
