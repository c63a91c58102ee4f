package repositories

import (
	"context"
)

// TransactionManager runs a unit of work atomically.
type TransactionManager interface {
	// RunInTx executes fn inside a transaction carried by the context passed to fn.
	// Repository calls made with that context join the transaction. A nested
	// RunInTx joins the outer transaction instead of opening a new one.
	// The transaction is rolled back if fn returns an error.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
