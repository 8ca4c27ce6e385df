package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

func TestClientServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewClientService(store, testPages)

	t.Run("stores the CPF normalized", func(t *testing.T) {
		c, err := svc.Create(ctx, "op-1", app.NewClient{
			Name:  "Maria Souza",
			Email: "maria@example.com",
			CPF:   "632.716.600-85",
		})
		require.NoError(t, err)
		assert.Equal(t, "63271660085", c.CPF)

		got, err := svc.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "63271660085", got.CPF)
	})

	t.Run("rejects an invalid CPF", func(t *testing.T) {
		_, err := svc.Create(ctx, "op-1", app.NewClient{
			Name:  "Maria Souza",
			Email: "maria2@example.com",
			CPF:   "632.716.600-00",
		})
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("punctuation variants of one CPF conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, "op-1", app.NewClient{
			Name:  "Other Maria",
			Email: "other@example.com",
			CPF:   "63271660085",
		})
		require.Error(t, err)
		assert.True(t, fault.IsConflict(err))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, "op-1", app.NewClient{
			Name:  "Joao",
			Email: "maria@example.com",
			CPF:   "905.106.940-55",
		})
		require.Error(t, err)
		assert.True(t, fault.IsConflict(err))
	})
}

func TestClientServiceUpdate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewClientService(store, testPages)

	c, err := svc.Create(ctx, "op-1", app.NewClient{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		CPF:   "632.716.600-85",
	})
	require.NoError(t, err)

	t.Run("partial update", func(t *testing.T) {
		name := "Maria S. Lima"
		updated, err := svc.Update(ctx, c.ID, app.UpdateClientInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, "maria@example.com", updated.Email)
	})

	t.Run("new CPF is validated and normalized", func(t *testing.T) {
		cpf := "905.106.940-55"
		updated, err := svc.Update(ctx, c.ID, app.UpdateClientInput{CPF: &cpf})
		require.NoError(t, err)
		assert.Equal(t, "90510694055", updated.CPF)

		bad := "905.106.940-00"
		_, err = svc.Update(ctx, c.ID, app.UpdateClientInput{CPF: &bad})
		assert.True(t, fault.IsValidation(err))
	})

	t.Run("unknown client", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(ctx, 999, app.UpdateClientInput{Name: &name})
		assert.True(t, fault.IsNotFound(err))
	})
}

func TestClientServiceList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewClientService(store, testPages)

	seedClient(t, store, "Maria Souza")
	seedClient(t, store, "Maria Lima")
	seedClient(t, store, "Joao Pereira")

	out, page, limit, err := svc.List(ctx, app.ListClientsInput{Name: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
	assert.Len(t, out, 2)
}

func TestClientServiceDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewClientService(store, testPages)

	id := seedClient(t, store, "Maria Souza")
	require.NoError(t, svc.Delete(ctx, id))
	_, err := svc.Get(ctx, id)
	assert.True(t, fault.IsNotFound(err))

	assert.True(t, fault.IsNotFound(svc.Delete(ctx, id)))
}
