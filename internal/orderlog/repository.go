package orderlog

import "context"

// Repository is the port for persisting order event entries. The service
// layer depends on this abstraction, not on SQLite directly.
type Repository interface {
	// Save appends one entry. The table is an append-only audit log,
	// never an upsert.
	Save(ctx context.Context, entry *Entry) error

	// ListByOrder returns every entry for an order, oldest first.
	ListByOrder(ctx context.Context, orderID int64) ([]*Entry, error)
}
