package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// The ledger tracks per-book copy counters. Both mutations run on the
// caller's transaction so they commit or roll back together with the
// loan record change. The guarded UPDATEs double as compare-and-swap:
// a concurrent writer that empties (or fills) the counter first makes
// the statement match zero rows instead of breaking the invariant
// 0 <= available_copies <= total_copies.

// DecrementAvailable takes one copy of a book off the shelf.
// Returns model.ErrNoCopiesAvailable if no copies are left.
func DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies - 1,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND available_copies > 0`, bookID,
	)
	if err != nil {
		return fmt.Errorf("decrementing available copies: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking decrement result: %w", err)
	}
	if affected == 0 {
		return model.ErrNoCopiesAvailable
	}
	return nil
}

// IncrementAvailable puts one copy of a book back on the shelf.
// Returns model.ErrCopiesOverflow if the counter is already at total_copies;
// that only happens if a loan and the ledger went out of sync.
func IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies + 1,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND available_copies < total_copies`, bookID,
	)
	if err != nil {
		return fmt.Errorf("incrementing available copies: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking increment result: %w", err)
	}
	if affected == 0 {
		return model.ErrCopiesOverflow
	}
	return nil
}
