package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/orderlog"
)

func TestOrderServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves stock and computes total", func(t *testing.T) {
		store := newStore(t)
		log := &memLog{}
		svc := app.NewOrderService(store, log, testPages)

		clientID := seedClient(t, store, "Maria")
		p1 := seedProduct(t, store, "rice 5kg", "10", 5)
		p2 := seedProduct(t, store, "olive oil", "20", 3)

		order, err := svc.Create(ctx, clientID, []app.NewOrderLine{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1},
		})
		require.NoError(t, err)

		assert.Equal(t, entity.StatusPending, order.Status)
		assert.Equal(t, clientID, order.ClientID)
		assert.True(t, order.TotalValue.Equal(decimalFrom(t, "40")))
		require.Len(t, order.Items, 2)

		assert.Equal(t, 3, getStock(t, store, p1))
		assert.Equal(t, 2, getStock(t, store, p2))

		entries, err := log.ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, orderlog.EventCreated, entries[0].Event)
	})

	t.Run("one short line aborts the whole order", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)

		clientID := seedClient(t, store, "Maria")
		p1 := seedProduct(t, store, "rice 5kg", "10", 5)
		p2 := seedProduct(t, store, "olive oil", "20", 0)

		_, err := svc.Create(ctx, clientID, []app.NewOrderLine{
			{ProductID: p1, Quantity: 1},
			{ProductID: p2, Quantity: 1},
		})
		require.Error(t, err)
		assert.True(t, fault.IsInsufficientStock(err))
		assert.Contains(t, err.Error(), "olive oil")

		// No line may have been reserved.
		assert.Equal(t, 5, getStock(t, store, p1))
		assert.Equal(t, 0, getStock(t, store, p2))
	})

	t.Run("unknown product", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)

		clientID := seedClient(t, store, "Maria")
		_, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: 999, Quantity: 1}})
		assert.True(t, fault.IsNotFound(err))
	})

	t.Run("unknown client", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)

		p1 := seedProduct(t, store, "rice 5kg", "10", 5)
		_, err := svc.Create(ctx, 999, []app.NewOrderLine{{ProductID: p1, Quantity: 1}})
		assert.True(t, fault.IsNotFound(err))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)

		clientID := seedClient(t, store, "Maria")
		p1 := seedProduct(t, store, "rice 5kg", "10", 5)

		_, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: p1, Quantity: 0}})
		assert.True(t, fault.IsValidation(err))
		assert.Equal(t, 5, getStock(t, store, p1))
	})
}

func TestOrderServiceUpdate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*app.OrderService, *storeFixture) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)
		f := &storeFixture{store: store}
		f.clientID = seedClient(t, store, "Maria")
		f.p1 = seedProduct(t, store, "rice 5kg", "10", 5)
		f.p2 = seedProduct(t, store, "olive oil", "20", 3)
		return svc, f
	}

	t.Run("replacing items moves stock both ways", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 2}})
		require.NoError(t, err)
		require.Equal(t, 3, getStock(t, f.store, f.p1))

		lines := []app.NewOrderLine{{ProductID: f.p2, Quantity: 1}}
		updated, err := svc.Update(ctx, order.ID, app.UpdateOrderInput{Items: &lines})
		require.NoError(t, err)

		assert.Equal(t, 5, getStock(t, f.store, f.p1))
		assert.Equal(t, 2, getStock(t, f.store, f.p2))
		require.Len(t, updated.Items, 1)
		assert.Equal(t, f.p2, updated.Items[0].ProductID)
		assert.True(t, updated.TotalValue.Equal(decimalFrom(t, "20")))
	})

	t.Run("identical replacement is a net no-op on stock", func(t *testing.T) {
		svc, f := setup(t)
		lines := []app.NewOrderLine{{ProductID: f.p1, Quantity: 2}}
		order, err := svc.Create(ctx, f.clientID, lines)
		require.NoError(t, err)

		_, err = svc.Update(ctx, order.ID, app.UpdateOrderInput{Items: &lines})
		require.NoError(t, err)
		assert.Equal(t, 3, getStock(t, f.store, f.p1))
	})

	t.Run("failed replacement leaves the old state", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 2}})
		require.NoError(t, err)

		lines := []app.NewOrderLine{{ProductID: f.p2, Quantity: 99}}
		_, err = svc.Update(ctx, order.ID, app.UpdateOrderInput{Items: &lines})
		require.Error(t, err)
		assert.True(t, fault.IsInsufficientStock(err))

		// Old items and stock untouched.
		assert.Equal(t, 3, getStock(t, f.store, f.p1))
		assert.Equal(t, 3, getStock(t, f.store, f.p2))
		got, err := svc.Get(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, f.p1, got.Items[0].ProductID)
	})

	t.Run("empty replacement removes all items", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 2}})
		require.NoError(t, err)

		lines := []app.NewOrderLine{}
		updated, err := svc.Update(ctx, order.ID, app.UpdateOrderInput{Items: &lines})
		require.NoError(t, err)
		assert.Empty(t, updated.Items)
		assert.True(t, updated.TotalValue.IsZero())
		assert.Equal(t, 5, getStock(t, f.store, f.p1))
	})

	t.Run("status cancelled delegates to cancel", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 2}})
		require.NoError(t, err)

		status := "cancelled"
		updated, err := svc.Update(ctx, order.ID, app.UpdateOrderInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCancelled, updated.Status)
		assert.Equal(t, 5, getStock(t, f.store, f.p1))
	})

	t.Run("cancellation cannot be combined with other fields", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 1}})
		require.NoError(t, err)

		status := "cancelled"
		other := f.clientID
		_, err = svc.Update(ctx, order.ID, app.UpdateOrderInput{Status: &status, ClientID: &other})
		require.Error(t, err)
		assert.True(t, fault.IsValidation(err))
		assert.Equal(t, 4, getStock(t, f.store, f.p1))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 1}})
		require.NoError(t, err)

		status := "shipped"
		_, err = svc.Update(ctx, order.ID, app.UpdateOrderInput{Status: &status})
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("cancelled orders are frozen", func(t *testing.T) {
		svc, f := setup(t)
		order, err := svc.Create(ctx, f.clientID, []app.NewOrderLine{{ProductID: f.p1, Quantity: 1}})
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, order.ID)
		require.NoError(t, err)

		status := "completed"
		_, err = svc.Update(ctx, order.ID, app.UpdateOrderInput{Status: &status})
		require.Error(t, err)
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := setup(t)
		status := "completed"
		_, err := svc.Update(ctx, 999, app.UpdateOrderInput{Status: &status})
		assert.True(t, fault.IsNotFound(err))
	})
}

func TestOrderServiceCancel(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	log := &memLog{}
	svc := app.NewOrderService(store, log, testPages)

	clientID := seedClient(t, store, "Maria")
	p1 := seedProduct(t, store, "rice 5kg", "10", 5)

	order, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: p1, Quantity: 3}})
	require.NoError(t, err)
	require.Equal(t, 2, getStock(t, store, p1))

	cancelled, err := svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, getStock(t, store, p1))

	// A second cancel must not restore stock again.
	_, err = svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, fault.IsValidation(err))
	assert.Equal(t, 5, getStock(t, store, p1))

	entries, err := log.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, orderlog.EventCancelled, entries[1].Event)

	_, err = svc.Cancel(ctx, 999)
	assert.True(t, fault.IsNotFound(err))
}

func TestOrderServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("releases stock and removes the order", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)

		clientID := seedClient(t, store, "Maria")
		p1 := seedProduct(t, store, "rice 5kg", "10", 5)

		order, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: p1, Quantity: 2}})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, order.ID))
		assert.Equal(t, 5, getStock(t, store, p1))

		_, err = svc.Get(ctx, order.ID)
		assert.True(t, fault.IsNotFound(err))
	})

	t.Run("deleting a cancelled order does not release twice", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)

		clientID := seedClient(t, store, "Maria")
		p1 := seedProduct(t, store, "rice 5kg", "10", 5)

		order, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: p1, Quantity: 2}})
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, 5, getStock(t, store, p1))

		require.NoError(t, svc.Delete(ctx, order.ID))
		assert.Equal(t, 5, getStock(t, store, p1))
	})

	t.Run("unknown order", func(t *testing.T) {
		store := newStore(t)
		svc := app.NewOrderService(store, nil, testPages)
		assert.True(t, fault.IsNotFound(svc.Delete(ctx, 999)))
	})
}

func TestOrderServiceList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewOrderService(store, nil, testPages)

	maria := seedClient(t, store, "Maria")
	joao := seedClient(t, store, "Joao")
	p1 := seedProduct(t, store, "rice 5kg", "10", 100)

	var mariaOrders []int64
	for i := 0; i < 3; i++ {
		o, err := svc.Create(ctx, maria, []app.NewOrderLine{{ProductID: p1, Quantity: 1}})
		require.NoError(t, err)
		mariaOrders = append(mariaOrders, o.ID)
	}
	joaoOrder, err := svc.Create(ctx, joao, []app.NewOrderLine{{ProductID: p1, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, joaoOrder.ID)
	require.NoError(t, err)

	t.Run("filter by client", func(t *testing.T) {
		orders, page, limit, err := svc.List(ctx, app.ListOrdersInput{ClientID: &maria})
		require.NoError(t, err)
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, limit)
		assert.Len(t, orders, 3)
	})

	t.Run("filter by status", func(t *testing.T) {
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{Status: "cancelled"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, joaoOrder.ID, orders[0].ID)
	})

	t.Run("filter by order id", func(t *testing.T) {
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{OrderID: &mariaOrders[0]})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, mariaOrders[0], orders[0].ID)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, _, _, err := svc.List(ctx, app.ListOrdersInput{Status: "shipped"})
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("page size clamp", func(t *testing.T) {
		_, page, limit, err := svc.List(ctx, app.ListOrdersInput{Page: 0, Limit: 100000})
		require.NoError(t, err)
		assert.Equal(t, 1, page)
		assert.Equal(t, testPages.MaxPageSize, limit)
	})

	t.Run("pagination walks the set", func(t *testing.T) {
		first, _, _, err := svc.List(ctx, app.ListOrdersInput{ClientID: &maria, Page: 1, Limit: 2})
		require.NoError(t, err)
		second, _, _, err := svc.List(ctx, app.ListOrdersInput{ClientID: &maria, Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first, 2)
		assert.Len(t, second, 1)
	})
}

func TestOrderServiceListSectionAndDates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewOrderService(store, nil, testPages)

	clientID := seedClient(t, store, "Maria")
	grocery := seedSectionProduct(t, store, "rice 5kg", "10", 100, "grocery")
	bakery := seedSectionProduct(t, store, "sourdough", "12", 100, "bakery")

	groceryOrder, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: grocery, Quantity: 1}})
	require.NoError(t, err)
	bakeryOrder, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: bakery, Quantity: 1}})
	require.NoError(t, err)

	t.Run("section matches through the order's items", func(t *testing.T) {
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{Section: "bakery"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, bakeryOrder.ID, orders[0].ID)

		orders, _, _, err = svc.List(ctx, app.ListOrdersInput{Section: "grocery"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, groceryOrder.ID, orders[0].ID)

		orders, _, _, err = svc.List(ctx, app.ListOrdersInput{Section: "frozen"})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("window around the creation time matches", func(t *testing.T) {
		start := groceryOrder.CreatedAt.Add(-time.Minute)
		end := groceryOrder.CreatedAt.Add(time.Minute)
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("start date is inclusive", func(t *testing.T) {
		start := groceryOrder.CreatedAt
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{StartDate: &start})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("end date is exclusive", func(t *testing.T) {
		// Both orders were created at or after this instant.
		end := groceryOrder.CreatedAt
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{EndDate: &end})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("window in the future matches nothing", func(t *testing.T) {
		start := groceryOrder.CreatedAt.Add(time.Hour)
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{StartDate: &start})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("section and date range compose with AND", func(t *testing.T) {
		start := groceryOrder.CreatedAt.Add(-time.Minute)
		end := groceryOrder.CreatedAt.Add(time.Minute)
		orders, _, _, err := svc.List(ctx, app.ListOrdersInput{
			Section:   "bakery",
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, bakeryOrder.ID, orders[0].ID)

		past := groceryOrder.CreatedAt.Add(-time.Minute)
		orders, _, _, err = svc.List(ctx, app.ListOrdersInput{Section: "bakery", EndDate: &past})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

// Stock may never go below zero, even when more orders race for it than
// there are units.
func TestOrderServiceConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewOrderService(store, nil, testPages)

	const workers = 5
	clientID := seedClient(t, store, "Maria")
	p1 := seedProduct(t, store, "rice 5kg", "10", workers-1)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, clientID, []app.NewOrderLine{{ProductID: p1, Quantity: 1}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case fault.IsInsufficientStock(err):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers-1, succeeded)
	assert.Equal(t, 1, short)
	assert.Equal(t, 0, getStock(t, store, p1))
}

