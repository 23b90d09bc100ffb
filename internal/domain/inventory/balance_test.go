package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/inventory"
)

func TestPlan_Transfer(t *testing.T) {
	steps, err := inventory.Plan(inventory.Request{Operation: inventory.OpTransfer, StoreID: "s-1", ToStoreID: "s-2", SKU: "A", Quantity: 4})
	require.NoError(t, err)
	require.Len(t, steps, 2)

	origin := &entity.StockBalance{StoreID: "s-1", SKU: "A", Available: 10}
	dest := &entity.StockBalance{StoreID: "s-2", SKU: "A", Available: 1}

	_, after, err := inventory.Apply(origin, steps[0])
	require.NoError(t, err)
	assert.Equal(t, 6, after)
	_, after, err = inventory.Apply(dest, steps[1])
	require.NoError(t, err)
	assert.Equal(t, 4, after)
	assert.Equal(t, 1, dest.Available, "lo trasladado no está disponible hasta recibirse")

	recv, err := inventory.Plan(inventory.Request{Operation: inventory.OpReceiveTransfer, StoreID: "s-2", SKU: "A", Quantity: 4})
	require.NoError(t, err)
	for _, s := range recv {
		_, _, err := inventory.Apply(dest, s)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, dest.InTransit)
	assert.Equal(t, 5, dest.Available)
}

func TestApply_ReceiveMoreThanInTransit(t *testing.T) {
	b := &entity.StockBalance{InTransit: 2}
	steps, err := inventory.Plan(inventory.Request{Operation: inventory.OpReceiveTransfer, StoreID: "s-1", SKU: "A", Quantity: 3})
	require.NoError(t, err)

	_, _, err = inventory.Apply(b, steps[0])
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 2, b.InTransit)
}

func TestApply_NegativeAvailableNotClamped(t *testing.T) {
	b := &entity.StockBalance{Available: 2}
	steps, err := inventory.Plan(inventory.Request{Operation: inventory.OpAdjustment, StoreID: "s-1", SKU: "A", Quantity: -5, Reason: "avaria"})
	require.NoError(t, err)

	before, after, err := inventory.Apply(b, steps[0])
	require.NoError(t, err)
	assert.Equal(t, 2, before)
	assert.Equal(t, -3, after)
	assert.True(t, inventory.WentNegative(steps[0], after))
}

func TestValidate(t *testing.T) {
	cases := map[string]inventory.Request{
		"ajuste cero":       {Operation: inventory.OpAdjustment, StoreID: "s", SKU: "A", Quantity: 0, Reason: "x"},
		"ajuste sin motivo": {Operation: inventory.OpAdjustment, StoreID: "s", SKU: "A", Quantity: 1},
		"entrada negativa":  {Operation: inventory.OpEntry, StoreID: "s", SKU: "A", Quantity: -1},
		"salida cero":       {Operation: inventory.OpExit, StoreID: "s", SKU: "A"},
		"misma loja":        {Operation: inventory.OpTransfer, StoreID: "s", ToStoreID: "s", SKU: "A", Quantity: 1},
		"sin sku":           {Operation: inventory.OpEntry, StoreID: "s", Quantity: 1},
		"operación rara":    {Operation: "robo", StoreID: "s", SKU: "A", Quantity: 1},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, inventory.Validate(r), domain.ErrInvalidInput)
		})
	}
}
