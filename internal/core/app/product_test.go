package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewProductService(store, testPages)

	t.Run("persists a valid product", func(t *testing.T) {
		expiration := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
		p, err := svc.Create(ctx, "op-1", app.NewProduct{
			Description:    "rice 5kg",
			Price:          decimal.RequireFromString("24.90"),
			Barcode:        "7891000100103",
			Section:        "grocery",
			Stock:          10,
			ExpirationDate: &expiration,
			Images:         []string{"rice.png"},
		})
		require.NoError(t, err)
		require.NotZero(t, p.ID)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "rice 5kg", got.Description)
		assert.True(t, got.Price.Equal(decimalFrom(t, "24.90")))
		assert.Equal(t, 10, got.Stock)
		require.NotNil(t, got.ExpirationDate)
		assert.True(t, got.ExpirationDate.Equal(expiration))
		assert.Equal(t, []string{"rice.png"}, got.Images)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := svc.Create(ctx, "op-1", app.NewProduct{Description: ""})
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("duplicate barcode conflicts", func(t *testing.T) {
		in := app.NewProduct{
			Description: "beans 1kg",
			Price:       decimal.NewFromInt(8),
			Barcode:     "7891000100104",
			Section:     "grocery",
		}
		_, err := svc.Create(ctx, "op-1", in)
		require.NoError(t, err)

		in.Description = "other beans"
		_, err = svc.Create(ctx, "op-1", in)
		require.Error(t, err)
		assert.True(t, fault.IsConflict(err))
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewProductService(store, testPages)

	id := seedProduct(t, store, "rice 5kg", "24.90", 10)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		price := decimal.RequireFromString("19.90")
		updated, err := svc.Update(ctx, id, app.UpdateProductInput{Price: &price})
		require.NoError(t, err)
		assert.True(t, updated.Price.Equal(price))
		assert.Equal(t, "rice 5kg", updated.Description)
		assert.Equal(t, 10, updated.Stock)
	})

	t.Run("update validates the merged result", func(t *testing.T) {
		negative := -1
		_, err := svc.Update(ctx, id, app.UpdateProductInput{Stock: &negative})
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("unknown product", func(t *testing.T) {
		desc := "x"
		_, err := svc.Update(ctx, 999, app.UpdateProductInput{Description: &desc})
		assert.True(t, fault.IsNotFound(err))
	})
}

func TestProductServiceList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewProductService(store, testPages)

	seedProduct(t, store, "rice 5kg", "24.90", 10)
	seedProduct(t, store, "rice 1kg", "6.50", 0)
	seedProduct(t, store, "olive oil", "39.90", 3)

	t.Run("filter by description", func(t *testing.T) {
		out, _, _, err := svc.List(ctx, app.ListProductsInput{Description: "rice"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("filter by availability", func(t *testing.T) {
		available := true
		out, _, _, err := svc.List(ctx, app.ListProductsInput{Available: &available})
		require.NoError(t, err)
		assert.Len(t, out, 2)

		available = false
		out, _, _, err = svc.List(ctx, app.ListProductsInput{Available: &available})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "rice 1kg", out[0].Description)
	})

	t.Run("filter by price range", func(t *testing.T) {
		min := decimal.NewFromInt(10)
		max := decimal.NewFromInt(30)
		out, _, _, err := svc.List(ctx, app.ListProductsInput{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "rice 5kg", out[0].Description)
	})
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	products := app.NewProductService(store, testPages)
	orders := app.NewOrderService(store, nil, testPages)

	t.Run("deletes an unreferenced product", func(t *testing.T) {
		id := seedProduct(t, store, "rice 5kg", "24.90", 10)
		require.NoError(t, products.Delete(ctx, id))
		_, err := products.Get(ctx, id)
		assert.True(t, fault.IsNotFound(err))
	})

	t.Run("products on an order are protected", func(t *testing.T) {
		clientID := seedClient(t, store, "Maria")
		id := seedProduct(t, store, "olive oil", "39.90", 5)
		_, err := orders.Create(ctx, clientID, []app.NewOrderLine{{ProductID: id, Quantity: 1}})
		require.NoError(t, err)

		err = products.Delete(ctx, id)
		require.Error(t, err)
		assert.True(t, fault.IsConflict(err))
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.True(t, fault.IsNotFound(products.Delete(ctx, 999)))
	})
}
