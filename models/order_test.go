package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderLabel(t *testing.T) {
	counter := Order{ID: 5}
	assert.True(t, counter.IsCounterSale())
	assert.Equal(t, "Order #5 (counter)", counter.Label())

	table := uint(3)
	dineIn := Order{ID: 6, TableID: &table}
	assert.False(t, dineIn.IsCounterSale())
	assert.Equal(t, "Order #6 (mesa 3)", dineIn.Label())
}

func TestOrderItemsTotal(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
	}}
	assert.Equal(t, "23.50", order.ItemsTotal().StringFixed(2))
}
