package ledger

import "context"

// Optimistic applies a tentative local change, then runs commit. When commit
// fails the compensating rollback runs and the commit error is returned.
func Optimistic(ctx context.Context, apply func(), commit func(context.Context) error, rollback func()) error {
	apply()
	if err := commit(ctx); err != nil {
		rollback()
		return err
	}
	return nil
}
