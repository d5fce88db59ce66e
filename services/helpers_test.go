package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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

func money(s string) decimal.Decimal {
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

type seedItem struct {
	product string
	qty     int
	price   string
}

// seedOrder menulis order langsung ke store tanpa lewat OrderService
func seedOrder(t *testing.T, db *gorm.DB, tableID *uint, status string, createdAt time.Time, items ...seedItem) models.Order {
	t.Helper()
	order := models.Order{TableID: tableID, Status: status, Source: models.SourcePDV, TotalAmount: decimal.Zero}
	if !createdAt.IsZero() {
		order.CreatedAt = createdAt.UTC()
	}
	require.NoError(t, db.Create(&order).Error)

	for _, it := range items {
		item := models.OrderItem{OrderID: order.ID, ProductID: it.product, Quantity: it.qty, UnitPrice: money(it.price)}
		require.NoError(t, db.Create(&item).Error)
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = order.ItemsTotal()
	require.NoError(t, db.Model(&models.Order{ID: order.ID}).Update("total_amount", order.TotalAmount).Error)
	return order
}

func uintPtr(v uint) *uint { return &v }

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

func reloadProduct(t *testing.T, db *gorm.DB, id string) models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product
}

// filtersOn: apakah WHERE statement menyebut column
func filtersOn(tx *gorm.DB, column string) bool {
	c, ok := tx.Statement.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range where.Exprs {
		if e, ok := expr.(clause.Expr); ok && strings.Contains(e.SQL, column) {
			return true
		}
	}
	return false
}
