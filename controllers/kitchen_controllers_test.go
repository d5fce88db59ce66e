package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestKitchenAdvanceFlow(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	orderID := s.placeOrder(t, 1, item("p1", 1))
	chef := s.tokenFor(t, models.RoleChef)

	w := s.do(t, http.MethodGet, "/admin/kitchen/orders", nil, chef)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)

	for _, want := range []string{models.OrderPreparing, models.OrderReady, models.OrderDelivered} {
		w = s.do(t, http.MethodPost, "/admin/kitchen/orders/"+itoa(orderID)+"/advance", nil, chef)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, want, decodeBody(t, w)["data"].(map[string]interface{})["status"])
	}

	// delivered adalah langkah terakhir dapur
	w = s.do(t, http.MethodPost, "/admin/kitchen/orders/"+itoa(orderID)+"/advance", nil, chef)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/admin/kitchen/orders", nil, chef)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["data"])

	order := reloadOrder(t, s.db, orderID)
	assert.NotNil(t, order.StartedAt)
	assert.NotNil(t, order.ReadyAt)
	assert.NotNil(t, order.DeliveredAt)
}

func TestKitchenUnknownOrder(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/admin/kitchen/orders/999/advance", nil, s.tokenFor(t, models.RoleChef))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
