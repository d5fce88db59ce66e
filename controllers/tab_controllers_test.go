package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestTableReceiptCombinesOpenOrders(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	seedProduct(t, s.db, "p2", "Suco", "6.50", 10)
	s.placeOrder(t, 1, item("p1", 2))
	s.placeOrder(t, 1, item("p2", 1))

	w := s.do(t, http.MethodGet, "/admin/tabs/tables/1", nil, s.tokenFor(t, models.RoleStaff))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	receipt := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Len(t, receipt["order_ids"], 2)
	assert.Len(t, receipt["lines"], 2)
	assert.True(t, jsonMoney(t, receipt["total"]).Equal(money("26.5")))
}

func TestDeleteLastItemFreesTable(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	orderID := s.placeOrder(t, 1, item("p1", 1))
	order := reloadOrder(t, s.db, orderID)
	require.Len(t, order.Items, 1)

	w := s.do(t, http.MethodDelete, "/admin/tabs/items/"+itoa(order.Items[0].ID), nil, s.tokenFor(t, models.RoleStaff))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, result["table_freed"])

	table := reloadTable(t, s.db, 1)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.True(t, table.TotalAmount.IsZero())
	assert.Equal(t, models.OrderFinalized, reloadOrder(t, s.db, orderID).Status)
}

func TestUpdateItemQuantity(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	orderID := s.placeOrder(t, 1, item("p1", 1))
	itemID := reloadOrder(t, s.db, orderID).Items[0].ID
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodPatch, "/admin/tabs/items/"+itoa(itemID), map[string]int{"quantity": 4}, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, reloadTable(t, s.db, 1).TotalAmount.Equal(money("40")))

	w = s.do(t, http.MethodPatch, "/admin/tabs/items/"+itoa(itemID), map[string]int{"quantity": -1}, staff)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCloseTab(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 2, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	first := s.placeOrder(t, 2, item("p1", 1))
	second := s.placeOrder(t, 2, item("p1", 2))
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodPost, "/admin/tabs/tables/2/close", nil, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bill := decodeBody(t, w)["data"].(map[string]interface{})
	assert.True(t, jsonMoney(t, bill["total"]).Equal(money("30")))

	assert.Equal(t, models.OrderFinalized, reloadOrder(t, s.db, first).Status)
	assert.Equal(t, models.OrderFinalized, reloadOrder(t, s.db, second).Status)
	table := reloadTable(t, s.db, 2)
	assert.Equal(t, models.TableDirty, table.Status)
	assert.True(t, table.TotalAmount.IsZero())

	// tidak ada lagi yang bisa ditutup
	w = s.do(t, http.MethodPost, "/admin/tabs/tables/2/close", nil, staff)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCloseCounterOrder(t *testing.T) {
	s := newTestServer(t)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	orderID := s.placeOrder(t, "counter", item("p1", 1))
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodGet, "/admin/tabs/orders/"+itoa(orderID), nil, staff)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/admin/tabs/orders/"+itoa(orderID)+"/close", nil, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.OrderFinalized, reloadOrder(t, s.db, orderID).Status)
}
