package app_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice-api/internal/adapters/sqlite"
	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
	"github.com/jcmexdev/backoffice-api/internal/orderlog"
)

var testPages = app.Pagination{DefaultPageSize: 10, MaxPageSize: 100}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var seedSeq int

// seedProduct inserts a grocery-section product directly, bypassing the
// service layer.
func seedProduct(t *testing.T, store *sqlite.Store, description, price string, stock int) int64 {
	return seedSectionProduct(t, store, description, price, stock, "grocery")
}

func seedSectionProduct(t *testing.T, store *sqlite.Store, description, price string, stock int, section string) int64 {
	t.Helper()
	seedSeq++
	p := &entity.Product{
		CreatedBy:   "test",
		Description: description,
		Price:       decimal.RequireFromString(price),
		Barcode:     fmt.Sprintf("789%010d", seedSeq),
		Section:     section,
		Stock:       stock,
	}
	err := store.Run(context.Background(), func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Products().Insert(ctx, p)
	})
	require.NoError(t, err)
	return p.ID
}

func seedClient(t *testing.T, store *sqlite.Store, name string) int64 {
	t.Helper()
	seedSeq++
	c := &entity.Client{
		CreatedBy: "test",
		Name:      name,
		Email:     fmt.Sprintf("client%d@example.com", seedSeq),
		CPF:       fmt.Sprintf("%011d", seedSeq),
	}
	err := store.Run(context.Background(), func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Clients().Insert(ctx, c)
	})
	require.NoError(t, err)
	return c.ID
}

// storeFixture bundles the ids most order tests need.
type storeFixture struct {
	store    *sqlite.Store
	clientID int64
	p1, p2   int64
}

func decimalFrom(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func getStock(t *testing.T, store *sqlite.Store, productID int64) int {
	t.Helper()
	var stock int
	err := store.Run(context.Background(), func(ctx context.Context, repos ports.RepositorySet) error {
		p, err := repos.Products().Get(ctx, productID)
		if err != nil {
			return err
		}
		stock = p.Stock
		return nil
	})
	require.NoError(t, err)
	return stock
}

// memLog is an in-memory orderlog.Repository for asserting audit writes.
type memLog struct {
	mu      sync.Mutex
	entries []*orderlog.Entry
}

var _ orderlog.Repository = (*memLog)(nil)

func (m *memLog) Save(_ context.Context, entry *orderlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memLog) ListByOrder(_ context.Context, orderID int64) ([]*orderlog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*orderlog.Entry
	for _, e := range m.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}
