package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestGetAllTables(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedTable(t, s.db, 12, models.TableOccupied)
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodGet, "/admin/tables", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "List of tables", response["message"])
	assert.Len(t, response["data"], 2)

	w = s.do(t, http.MethodGet, "/admin/tables?status=occupied", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.EqualValues(t, 12, data[0].(map[string]interface{})["id"])

	w = s.do(t, http.MethodGet, "/admin/tables?search=12", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)
}

func TestGetAllTablesWithReconcile(t *testing.T) {
	s := newTestServer(t)
	// meja occupied tanpa order terbuka harus jadi dirty
	table := seedTable(t, s.db, 5, models.TableOccupied)
	require.NoError(t, s.db.Model(&table).Update("total_amount", decimal.NewFromInt(30)).Error)

	w := s.do(t, http.MethodGet, "/admin/tables?reconcile=true", nil, s.tokenFor(t, models.RoleStaff))
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, models.TableDirty, row["status"])
	assert.True(t, jsonMoney(t, row["total_amount"]).IsZero())
}

func TestCreateAndUpdateTable(t *testing.T) {
	s := newTestServer(t)
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodPost, "/admin/tables", map[string]interface{}{"id": 7, "name": "Varanda 7"}, staff)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/admin/tables", map[string]interface{}{"id": 7, "name": "Duplicada"}, staff)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/admin/tables/7", map[string]string{"status": "dirty"}, staff)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Table status updated", response["message"])
	assert.Equal(t, models.TableDirty, response["data"].(map[string]interface{})["status"])

	w = s.do(t, http.MethodPatch, "/admin/tables/7", map[string]string{"status": "broken"}, staff)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkTableClean(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 4, models.TableDirty)
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodPatch, "/admin/tables/4/clean", nil, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.TableAvailable, reloadTable(t, s.db, 4).Status)

	w = s.do(t, http.MethodPatch, "/admin/tables/4/clean", nil, staff)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteTableWithOpenOrders(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	seedTable(t, s.db, 2, models.TableAvailable)
	seedProduct(t, s.db, "p1", "Pastel", "10.00", 10)
	s.placeOrder(t, 1, item("p1", 1))
	staff := s.tokenFor(t, models.RoleStaff)

	w := s.do(t, http.MethodDelete, "/admin/tables/1", nil, staff)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodDelete, "/admin/tables/2", nil, staff)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/admin/tables/2", nil, staff)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReconcileEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 3, models.TableOccupied)

	w := s.do(t, http.MethodPost, "/admin/tables/reconcile", nil, s.tokenFor(t, models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	report := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, report["tables_checked"])
	assert.EqualValues(t, 1, report["tables_corrected"])
	assert.Equal(t, models.TableDirty, reloadTable(t, s.db, 3).Status)
}

func TestTableQueriesFollowRequestContext(t *testing.T) {
	s := newTestServer(t)
	seedTable(t, s.db, 1, models.TableAvailable)
	staff := s.tokenFor(t, models.RoleStaff)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, path := range []string{"/admin/tables", "/admin/tables/1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
		req.Header.Set("Authorization", "Bearer "+staff)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
	}

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/admin/tables/1", nil, staff).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/admin/tables/404", nil, staff).Code)
}
