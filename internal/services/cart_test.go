package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhaven/pawhaven-backend/internal/models"
)

func TestAddCartItem(t *testing.T) {
	cart := models.Cart{UserID: "u1", Items: []models.CartItem{}}

	t.Run("appends a new line", func(t *testing.T) {
		got := AddCartItem(cart, "p1", 2)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "p1", got.Items[0].ProductID)
		assert.Equal(t, 2, got.Items[0].Quantity)
	})

	t.Run("merges into an existing line", func(t *testing.T) {
		got := AddCartItem(cart, "p1", 2)
		got = AddCartItem(got, "p1", 3)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 5, got.Items[0].Quantity)
	})

	t.Run("quantity below one is treated as one", func(t *testing.T) {
		got := AddCartItem(cart, "p1", 0)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 1, got.Items[0].Quantity)
	})
}

func TestSetCartItemQuantity(t *testing.T) {
	base := models.Cart{UserID: "u1", Items: []models.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}}

	t.Run("updates a line", func(t *testing.T) {
		got, found := SetCartItemQuantity(base, "p1", 7)
		assert.True(t, found)
		assert.Equal(t, 7, got.Items[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		cart := models.Cart{UserID: "u1", Items: []models.CartItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		}}
		got, found := SetCartItemQuantity(cart, "p1", 0)
		assert.True(t, found)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "p2", got.Items[0].ProductID)
	})

	t.Run("missing product reports not found", func(t *testing.T) {
		got, found := SetCartItemQuantity(base, "nope", 3)
		assert.False(t, found)
		assert.Len(t, got.Items, len(base.Items))
	})
}
