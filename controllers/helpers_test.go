package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/router"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	db      *gorm.DB
	engine  *gin.Engine
	tokens  *utils.TokenManager
	refresh []*realtime.Trigger
}

// setupTestDB menggunakan SQLite in-memory, satu database per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), config.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.RegisterChangeCapture(db))
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := setupTestDB(t)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	reconcile := realtime.NewTrigger("reconcile")
	kitchen := realtime.NewTrigger("kitchen")

	engine := router.SetupRouter(db, router.Options{
		Tokens:  tokens,
		Refresh: realtime.NewGroup(reconcile, kitchen),
	})
	return &testServer{
		db:      db,
		engine:  engine,
		tokens:  tokens,
		refresh: []*realtime.Trigger{reconcile, kitchen},
	}
}

// tokenFor menerbitkan token untuk user fiktif dengan role tertentu
func (s *testServer) tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(99, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// jsonMoney membaca decimal yang diserialisasi sebagai string JSON
func jsonMoney(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected decimal string, got %T", v)
	return decimal.RequireFromString(s)
}

func seedTable(t *testing.T, db *gorm.DB, id uint, status string) models.Table {
	t.Helper()
	table := models.Table{ID: id, Name: fmt.Sprintf("Mesa %d", id), Status: status, TotalAmount: decimal.Zero}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedProduct(t *testing.T, db *gorm.DB, id, name, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{ID: id, Name: name, Price: money(price), StockQuantity: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func reloadTable(t *testing.T, db *gorm.DB, id uint) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, db.First(&table, id).Error)
	return table
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, id).Error)
	return order
}

// placeOrder membuat order lewat endpoint publik dan mengembalikan id-nya
func (s *testServer) placeOrder(t *testing.T, tableID interface{}, items ...map[string]interface{}) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/orders", map[string]interface{}{
		"table_id": tableID,
		"items":    items,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["orderId"].(float64))
}

func item(productID string, qty int) map[string]interface{} {
	return map[string]interface{}{"product_id": productID, "quantity": qty}
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
