package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestRevenueReportEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	s.placeOrder(t, 1, item("p1", 2))
	cancelled := s.placeOrder(t, "counter", item("p1", 5))
	admin := s.tokenFor(t, models.RoleAdmin)

	w := s.do(t, http.MethodPost, "/admin/orders/"+itoa(cancelled)+"/cancel", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/admin/reports/revenue?range=monthly", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeBody(t, w)["data"].(map[string]interface{})
	assert.True(t, jsonMoney(t, report["total_revenue"]).Equal(money("20")))
	assert.EqualValues(t, 1, report["order_count"])
	assert.Len(t, report["buckets"], 30)

	w = s.do(t, http.MethodGet, "/admin/reports/revenue?range=yearly", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardStats(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedTable(t, s.db, 2, models.TableDirty)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	s.placeOrder(t, 1, item("p1", 1))
	admin := s.tokenFor(t, models.RoleAdmin)

	w := s.do(t, http.MethodGet, "/admin/reports/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stats := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["today_orders"])
	orderStats := stats["order_stats"].(map[string]interface{})
	assert.EqualValues(t, 1, orderStats[models.OrderQueued])
	assert.EqualValues(t, 0, orderStats[models.OrderReady])
	tableStats := stats["table_stats"].(map[string]interface{})
	assert.EqualValues(t, 1, tableStats[models.TableOccupied])
	assert.EqualValues(t, 1, tableStats[models.TableDirty])
	assert.Len(t, stats["recent_orders"], 1)

	w = s.do(t, http.MethodGet, "/admin/reports/dashboard", nil, s.tokenFor(t, models.RoleStaff))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
