package borrow

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

var testClock = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	engine := &Engine{DB: database, Now: func() time.Time { return testClock }}
	return engine, database
}

func seedBook(t *testing.T, database *sql.DB, title string, copies int) *model.Book {
	t.Helper()
	ctx := context.Background()

	author, err := store.CreateAuthor(ctx, database, title+" Author")
	if err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}
	genre, err := store.CreateGenre(ctx, database, title+" Genre")
	if err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	book, err := store.CreateBook(ctx, database, title, author.ID, genre.ID, "isbn-"+title, copies)
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	return book
}

func seedMember(t *testing.T, database *sql.DB, name string) *model.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), database, name, name+"@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func availableCopies(t *testing.T, database *sql.DB, bookID int64) int {
	t.Helper()
	book, err := store.GetBook(context.Background(), database, bookID)
	if err != nil || book == nil {
		t.Fatalf("GetBook: %v", err)
	}
	return book.AvailableCopies
}

func TestBorrowLifecycle(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 5)
	member := seedMember(t, database, "alice")

	loan, err := engine.Borrow(ctx, member.ID, book.ID)
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if !loan.Active() {
		t.Error("expected active loan")
	}
	if !loan.BorrowedAt.Equal(testClock) {
		t.Errorf("expected borrowed_at %v, got %v", testClock, loan.BorrowedAt)
	}
	if want := testClock.Add(LoanPeriod); !loan.DueDate.Equal(want) {
		t.Errorf("expected due_date %v, got %v", want, loan.DueDate)
	}
	if got := availableCopies(t, database, book.ID); got != 4 {
		t.Errorf("expected 4 available after borrow, got %d", got)
	}

	// Borrowing the same book again while the loan is open fails.
	_, err = engine.Borrow(ctx, member.ID, book.ID)
	if err != model.ErrAlreadyBorrowed {
		t.Errorf("expected ErrAlreadyBorrowed, got %v", err)
	}
	if got := availableCopies(t, database, book.ID); got != 4 {
		t.Errorf("expected 4 available after rejected borrow, got %d", got)
	}

	returned, err := engine.Return(ctx, loan.ID)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if returned.ReturnedAt == nil || !returned.ReturnedAt.Equal(testClock) {
		t.Errorf("expected returned_at %v, got %v", testClock, returned.ReturnedAt)
	}
	if got := availableCopies(t, database, book.ID); got != 5 {
		t.Errorf("expected 5 available after return, got %d", got)
	}

	// Canceling the now-returned loan reports its terminal state.
	_, err = engine.Cancel(ctx, loan.ID)
	if err != model.ErrAlreadyReturned {
		t.Errorf("expected ErrAlreadyReturned, got %v", err)
	}
	if got := availableCopies(t, database, book.ID); got != 5 {
		t.Errorf("expected available unchanged by failed cancel, got %d", got)
	}
}

func TestBorrowThenCancelRoundTrip(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 2)
	member := seedMember(t, database, "alice")

	loan, err := engine.Borrow(ctx, member.ID, book.ID)
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if got := availableCopies(t, database, book.ID); got != 1 {
		t.Errorf("expected 1 available, got %d", got)
	}

	canceled, err := engine.Cancel(ctx, loan.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !canceled.IsCanceled || canceled.ReturnedAt != nil {
		t.Errorf("expected canceled loan with nil returned_at, got %+v", canceled)
	}
	if got := availableCopies(t, database, book.ID); got != 2 {
		t.Errorf("expected available restored after cancel, got %d", got)
	}

	// Both terminal transitions are final.
	if _, err := engine.Return(ctx, loan.ID); err != model.ErrAlreadyCanceled {
		t.Errorf("expected ErrAlreadyCanceled, got %v", err)
	}
	if _, err := engine.Cancel(ctx, loan.ID); err != model.ErrAlreadyCanceled {
		t.Errorf("expected ErrAlreadyCanceled, got %v", err)
	}
}

func TestBorrowNoCopies(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 0)
	member := seedMember(t, database, "bob")

	_, err := engine.Borrow(ctx, member.ID, book.ID)
	if err != model.ErrNoCopiesAvailable {
		t.Errorf("expected ErrNoCopiesAvailable, got %v", err)
	}

	// No loan row was created.
	loans, _ := store.ListLoans(ctx, database)
	if len(loans) != 0 {
		t.Errorf("expected no loans, got %v", loans)
	}
}

func TestBorrowInactiveBook(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 5)
	member := seedMember(t, database, "alice")

	if err := store.DeactivateBook(ctx, database, book.ID); err != nil {
		t.Fatalf("DeactivateBook: %v", err)
	}

	_, err := engine.Borrow(ctx, member.ID, book.ID)
	if err != model.ErrBookInactive {
		t.Errorf("expected ErrBookInactive, got %v", err)
	}
	if got := availableCopies(t, database, book.ID); got != 5 {
		t.Errorf("expected ledger untouched, got %d", got)
	}
}

func TestBorrowInactiveUser(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 5)
	member := seedMember(t, database, "alice")

	if err := store.DeactivateUser(ctx, database, member.ID); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}

	_, err := engine.Borrow(ctx, member.ID, book.ID)
	if err != model.ErrUserInactive {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
	if got := availableCopies(t, database, book.ID); got != 5 {
		t.Errorf("expected ledger untouched, got %d", got)
	}

	loans, _ := store.ListLoans(ctx, database)
	if len(loans) != 0 {
		t.Errorf("expected no loans, got %v", loans)
	}
}

func TestBorrowPreconditionOrder(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	// Inactive book and inactive user: the book check fires first.
	book := seedBook(t, database, "Dune", 0)
	member := seedMember(t, database, "alice")
	store.DeactivateBook(ctx, database, book.ID)
	store.DeactivateUser(ctx, database, member.ID)

	if _, err := engine.Borrow(ctx, member.ID, book.ID); err != model.ErrBookInactive {
		t.Errorf("expected ErrBookInactive first, got %v", err)
	}
}

func TestBorrowMissingBookAndUser(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	member := seedMember(t, database, "alice")
	if _, err := engine.Borrow(ctx, member.ID, 999); err != model.ErrBookNotFound {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}

	book := seedBook(t, database, "Dune", 1)
	if _, err := engine.Borrow(ctx, 999, book.ID); err != model.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReturnMissingLoan(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.Return(context.Background(), 123); err != model.ErrLoanNotFound {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestMultipleMembersShareCopies(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 2)
	alice := seedMember(t, database, "alice")
	bob := seedMember(t, database, "bob")
	carol := seedMember(t, database, "carol")

	if _, err := engine.Borrow(ctx, alice.ID, book.ID); err != nil {
		t.Fatalf("alice Borrow: %v", err)
	}
	if _, err := engine.Borrow(ctx, bob.ID, book.ID); err != nil {
		t.Fatalf("bob Borrow: %v", err)
	}

	// Third borrower finds the shelf empty.
	if _, err := engine.Borrow(ctx, carol.ID, book.ID); err != model.ErrNoCopiesAvailable {
		t.Errorf("expected ErrNoCopiesAvailable, got %v", err)
	}
	if got := availableCopies(t, database, book.ID); got != 0 {
		t.Errorf("expected 0 available, got %d", got)
	}
}

func TestConcurrentBorrowsNeverOversell(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	const copies = 3
	const borrowers = 8

	book := seedBook(t, database, "Dune", copies)

	members := make([]*model.User, borrowers)
	for i := range members {
		members[i] = seedMember(t, database, "member"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, borrowers)
	for i := range members {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Borrow(ctx, members[i].ID, book.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, noCopies int
	for _, err := range errs {
		switch err {
		case nil:
			succeeded++
		case model.ErrNoCopiesAvailable:
			noCopies++
		default:
			t.Errorf("unexpected borrow error: %v", err)
		}
	}

	if succeeded != copies {
		t.Errorf("expected exactly %d successful borrows, got %d", copies, succeeded)
	}
	if noCopies != borrowers-copies {
		t.Errorf("expected %d no-copies failures, got %d", borrowers-copies, noCopies)
	}
	if got := availableCopies(t, database, book.ID); got != 0 {
		t.Errorf("expected 0 available after saturation, got %d", got)
	}

	loans, _ := store.ListActiveLoans(ctx, database)
	if len(loans) != copies {
		t.Errorf("expected %d active loans, got %d", copies, len(loans))
	}
}

func TestConcurrentSamePairCreatesOneLoan(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	book := seedBook(t, database, "Dune", 10)
	member := seedMember(t, database, "alice")

	const attempts = 6
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Borrow(ctx, member.ID, book.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if err != model.ErrAlreadyBorrowed {
			t.Errorf("unexpected borrow error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful borrow, got %d", succeeded)
	}
	if got := availableCopies(t, database, book.ID); got != 9 {
		t.Errorf("expected 9 available, got %d", got)
	}
}
