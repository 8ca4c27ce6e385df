// Package ports declares the interfaces the core depends on. The service
// layer is written against these, not against SQLite directly, so the
// store can be swapped for Postgres or an in-memory fake in tests.
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
)

// UnitOfWork scopes a group of repository calls to one transaction.
// The callback either commits as a whole or rolls back as a whole; this is
// what makes multi-step order mutations all-or-nothing.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos RepositorySet) error) error
}

// RepositorySet exposes the repositories bound to the active transaction.
type RepositorySet interface {
	Orders() OrderRepository
	Products() ProductRepository
	Clients() ClientRepository
	Users() UserRepository
}

// OrderFilter is AND-composed; nil/zero fields are ignored.
type OrderFilter struct {
	OrderID  *int64
	ClientID *int64
	Status   *entity.OrderStatus
	// Section matches orders with at least one line whose product belongs
	// to the section (join through order_items).
	Section   string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // exclusive
	Offset    int
	Limit     int
}

type OrderRepository interface {
	// Insert persists the order header and assigns o.ID.
	Insert(ctx context.Context, o *entity.Order) error
	// Get returns the order with its items materialized against current
	// product data, or a NotFound fault.
	Get(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	// Update rewrites client_id, status and total_value.
	Update(ctx context.Context, o *entity.Order) error
	// Delete removes the order; its items go with it (cascade).
	Delete(ctx context.Context, id int64) error

	InsertItem(ctx context.Context, orderID int64, item entity.OrderItem) error
	DeleteItems(ctx context.Context, orderID int64) error
}

type ProductFilter struct {
	Description string
	Barcode     string
	Section     string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Available   *bool
	Offset      int
	Limit       int
}

type ProductRepository interface {
	Insert(ctx context.Context, p *entity.Product) error
	Get(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error

	// Reserve decrements stock by qty only if stock >= qty, atomically.
	// Fails with NotFound or InsufficientStock without mutating anything.
	Reserve(ctx context.Context, id int64, qty int) error
	// Release increments stock by qty unconditionally.
	Release(ctx context.Context, id int64, qty int) error
}

type ClientFilter struct {
	Name   string
	Email  string
	CPF    string
	Offset int
	Limit  int
}

type ClientRepository interface {
	Insert(ctx context.Context, c *entity.Client) error
	Get(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context, f ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Insert(ctx context.Context, u *entity.User) error
	GetByUID(ctx context.Context, uid string) (*entity.User, error)
}
