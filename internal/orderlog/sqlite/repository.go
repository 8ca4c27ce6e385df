// Package sqlite provides a SQLite-backed implementation of
// orderlog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa: the lifecycle engine appends while the events endpoint may be
// reading the same order's trail.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/backoffice-api/internal/orderlog"

	// Register the pure-Go SQLite driver. We use modernc.org/sqlite instead
	// of mattn/go-sqlite3 to avoid CGO requirements.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only:
// each row is an immutable event in an order's lifecycle.
const schema = `
CREATE TABLE IF NOT EXISTS order_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier; not UNIQUE because multiple rows exist per
    -- order (one per transition).
    order_id    INTEGER     NOT NULL,

    -- Transition that was applied (ORDER_CREATED, ORDER_CANCELLED, ...).
    event       TEXT        NOT NULL,

    -- Order status after the transition; empty for deletions.
    status      TEXT        NOT NULL DEFAULT '',

    -- Short human-readable summary of the transition.
    detail      TEXT        NOT NULL DEFAULT '',

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id    TEXT        NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars).
    span_id     TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT        NOT NULL
);

-- The common query: "give me the trail for order X in order".
CREATE INDEX IF NOT EXISTS idx_order_events_order_id ON order_events(order_id, created_at);

-- The observability query: "find the order for trace Y".
CREATE INDEX IF NOT EXISTS idx_order_events_trace_id ON order_events(trace_id);
`

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
func Open(path string) (*Repository, error) {
	// WAL enables concurrent readers. busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("orderlog: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("orderlog: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one event row. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_events
			(order_id, event, status, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Event),
		entry.Status,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("orderlog: save event for order %d: %w", entry.OrderID, err)
	}
	return nil
}

// ListByOrder returns the full trail for one order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]*orderlog.Entry, error) {
	const q = `
		SELECT order_id, event, status, detail, trace_id, span_id, created_at
		FROM   order_events
		WHERE  order_id = ?
		ORDER  BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("orderlog: list events for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var entries []*orderlog.Entry
	for rows.Next() {
		var entry orderlog.Entry
		var createdAt string
		if err := rows.Scan(
			&entry.OrderID,
			&entry.Event,
			&entry.Status,
			&entry.Detail,
			&entry.TraceID,
			&entry.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("orderlog: scan event row: %w", err)
		}
		entry.CreatedAt, err = parseRFC3339(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
