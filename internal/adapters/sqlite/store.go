// Package sqlite implements the core's repository ports on SQLite.
//
// WAL mode is enabled on Open so readers never block the writer. All
// mutating operations go through Store.Run, which wraps the callback in a
// single transaction: either every stock/item change commits or none do.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/backoffice-api/internal/core/ports"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent due to
// IF NOT EXISTS. The CHECK constraints are the last line of defence for
// the stock/quantity invariants; the application enforces them first.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    created_by      TEXT    NOT NULL,
    description     TEXT    NOT NULL,

    -- Decimal stored as TEXT to keep prices exact; range filters cast.
    price           TEXT    NOT NULL,

    barcode         TEXT    NOT NULL UNIQUE,
    section         TEXT    NOT NULL,
    stock           INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),

    -- Date stored as ISO TEXT, NULL when the product does not expire.
    expiration_date TEXT,

    -- JSON array of image references.
    images          TEXT    NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS clients (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    created_by TEXT NOT NULL,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL UNIQUE,

    -- Normalized to 11 digits before insert; checksum-validated upstream.
    cpf        TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    uid        TEXT NOT NULL UNIQUE,
    created_by TEXT NOT NULL,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL UNIQUE,
    role       TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE IF NOT EXISTS orders (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    client_id   INTEGER NOT NULL REFERENCES clients(id),
    status      TEXT    NOT NULL DEFAULT 'pending',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT    NOT NULL,

    -- Derived decimal, persisted at creation/replacement time.
    total_value TEXT    NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS order_items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Items belong to exactly one order and die with it.
    order_id   INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,

    -- Products referenced by an item cannot be deleted.
    product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,

    quantity   INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE INDEX IF NOT EXISTS idx_orders_client_id  ON orders(client_id);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_products_section  ON products(section);
`

// Store owns the database handle and implements ports.UnitOfWork.
type Store struct {
	db *sql.DB
}

var _ ports.UnitOfWork = (*Store)(nil)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	store, err := sqlite.Open("./data/backoffice.db")
func Open(path string) (*Store, error) {
	// WAL enables concurrent readers. foreign_keys=on enforces the
	// cascade/restrict rules above. busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection; concurrent
	// requests queue at the pool instead of hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Run executes fn inside one transaction. A non-nil error from fn rolls
// everything back and is returned unchanged, so typed domain faults pass
// through to the caller.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.RepositorySet) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}

	if err := fn(ctx, &txRepos{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit tx: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.Tx and *sql.DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txRepos hands out repositories bound to one transaction.
type txRepos struct {
	tx *sql.Tx
}

var _ ports.RepositorySet = (*txRepos)(nil)

func (r *txRepos) Orders() ports.OrderRepository     { return &orderRepository{q: r.tx} }
func (r *txRepos) Products() ports.ProductRepository { return &productRepository{q: r.tx} }
func (r *txRepos) Clients() ports.ClientRepository   { return &clientRepository{q: r.tx} }
func (r *txRepos) Users() ports.UserRepository       { return &userRepository{q: r.tx} }
