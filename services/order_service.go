package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

const maxIdempotencyKeyLength = 64

// TableRef adalah tujuan order: nomor meja atau penjualan di kasir.
type TableRef struct {
	ID      uint
	Counter bool
}

func (r TableRef) String() string {
	if r.Counter {
		return "counter"
	}
	return strconv.FormatUint(uint64(r.ID), 10)
}

// ParseTableRef menerima nilai table_id hasil decode JSON: angka, string
// angka, atau "counter".
func ParseTableRef(raw interface{}) (TableRef, error) {
	switch v := raw.(type) {
	case nil:
		return TableRef{}, fmt.Errorf("%w: table_id is required", ErrInvalidInput)
	case float64:
		if v <= 0 || v != math.Trunc(v) {
			return TableRef{}, fmt.Errorf("%w: invalid table_id %v", ErrInvalidInput, v)
		}
		return TableRef{ID: uint(v)}, nil
	case json.Number:
		return ParseTableRef(v.String())
	case string:
		s := strings.TrimSpace(v)
		if strings.EqualFold(s, "counter") {
			return TableRef{Counter: true}, nil
		}
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return TableRef{}, fmt.Errorf("%w: invalid table_id %q", ErrInvalidInput, v)
		}
		return TableRef{ID: uint(id)}, nil
	default:
		return TableRef{}, fmt.Errorf("%w: invalid table_id", ErrInvalidInput)
	}
}

// ParseQuantity: kosong, bukan angka atau <= 0 dianggap 1.
func ParseQuantity(raw interface{}) int {
	var qty float64
	switch v := raw.(type) {
	case float64:
		qty = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 1
		}
		qty = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 1
		}
		qty = f
	default:
		return 1
	}
	if qty < 1 || qty > math.MaxInt32 {
		return 1
	}
	return int(qty)
}

// ParseProductID menerima id produk dalam bentuk string atau angka.
func ParseProductID(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
	Notes     string
}

type CreateOrderInput struct {
	Table          TableRef
	Items          []OrderItemInput
	Source         string
	IdempotencyKey string
}

type CreateOrderResult struct {
	OrderID   uint
	Total     decimal.Decimal
	Duplicate bool
	Order     *models.Order
}

type OrderService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

func normalizeSource(source string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", models.SourcePDV:
		return models.SourcePDV, nil
	case models.SourceQR:
		return models.SourceQR, nil
	default:
		return "", fmt.Errorf("%w: unknown order source %q", ErrInvalidInput, source)
	}
}

// CreateOrder membuat order beserta item, mengurangi stok dan menandai meja
// occupied dalam satu transaksi. Harga selalu diambil dari produk di store.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	source, err := normalizeSource(in.Source)
	if err != nil {
		return nil, err
	}
	if !in.Table.Counter && in.Table.ID == 0 {
		return nil, fmt.Errorf("%w: table_id is required", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > maxIdempotencyKeyLength {
		return nil, fmt.Errorf("%w: idempotency key longer than %d characters", ErrInvalidInput, maxIdempotencyKeyLength)
	}

	db := s.db.WithContext(ctx)
	var result *CreateOrderResult
	var tableUpdate *TableUpdate

	err = db.Transaction(func(tx *gorm.DB) error {
		if key != "" {
			existing, err := findOrderByIdempotencyKey(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				result = &CreateOrderResult{OrderID: existing.ID, Total: existing.TotalAmount, Duplicate: true, Order: existing}
				return nil
			}
		}

		if source == models.SourceQR {
			settings, err := loadSettings(tx)
			if err != nil {
				return err
			}
			if !settings.QROrderingEnabled {
				return fmt.Errorf("%w: QR ordering is disabled", ErrForbidden)
			}
		}

		var tableID *uint
		if !in.Table.Counter {
			var table models.Table
			if err := tx.First(&table, in.Table.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: table %d does not exist", ErrInvalidInput, in.Table.ID)
				}
				return err
			}
			tableID = &table.ID
		}

		products, err := productsByID(tx, in.Items)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(in.Items))
		total := decimal.Zero
		for _, it := range in.Items {
			product, ok := products[it.ProductID]
			if !ok {
				utils.InfoLogger.Printf("Skipping unknown product %q in order for table %s", it.ProductID, in.Table)
				continue
			}
			qty := it.Quantity
			if qty < 1 {
				qty = 1
			}
			item := models.OrderItem{
				ProductID: product.ID,
				Quantity:  qty,
				UnitPrice: product.Price,
				Notes:     strings.TrimSpace(it.Notes),
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: none of the requested products exist", ErrInvalidInput)
		}

		order := models.Order{
			TableID:     tableID,
			Status:      models.OrderQueued,
			TotalAmount: total,
			Source:      source,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		reason := fmt.Sprintf("order #%d", order.ID)
		for _, item := range items {
			if _, err := applyStockChange(tx, item.ProductID, -item.Quantity, reason, nil); err != nil {
				return err
			}
		}

		if tableID != nil {
			tableTotal, err := occupyTable(tx, *tableID)
			if err != nil {
				return err
			}
			tableUpdate = &TableUpdate{TableID: *tableID, Status: models.TableOccupied, TotalAmount: tableTotal}
		}

		order.Items = items
		result = &CreateOrderResult{OrderID: order.ID, Total: total, Order: &order}
		return nil
	})

	if err != nil {
		// Request kembar yang kalah balapan di unique index idempotency_key
		if key != "" && !isServiceError(err) {
			if existing, findErr := findOrderByIdempotencyKey(db, key); findErr == nil && existing != nil {
				return &CreateOrderResult{OrderID: existing.ID, Total: existing.TotalAmount, Duplicate: true, Order: existing}, nil
			}
		}
		return nil, err
	}

	if result.Duplicate {
		utils.InfoLogger.Printf("Duplicate order request %q returns order #%d", key, result.OrderID)
		return result, nil
	}

	utils.InfoLogger.Printf("%s created with %d items, total %s", result.Order.Label(), len(result.Order.Items), result.Total.StringFixed(2))
	if s.notifier != nil {
		s.notifier.BroadcastStaffNotification(newOrderNotification(result.Order))
		s.notifier.BroadcastOrderUpdate(orderUpdateOf(result.Order))
		if tableUpdate != nil {
			s.notifier.BroadcastTableUpdate(*tableUpdate)
		}
	}
	return result, nil
}

func findOrderByIdempotencyKey(tx *gorm.DB, key string) (*models.Order, error) {
	var order models.Order
	err := tx.Where("idempotency_key = ?", key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func productsByID(tx *gorm.DB, items []OrderItemInput) (map[string]models.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}

	result := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

// occupyTable menandai meja occupied dan menghitung ulang totalnya dari
// semua item order terbuka.
func occupyTable(tx *gorm.DB, tableID uint) (decimal.Decimal, error) {
	items, err := openTableItems(tx, tableID)
	if err != nil {
		return decimal.Zero, err
	}
	total := sumItems(items)
	err = tx.Model(&models.Table{ID: tableID}).Updates(map[string]interface{}{
		"status":       models.TableOccupied,
		"total_amount": total,
	}).Error
	return total, err
}

func isServiceError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrForbidden)
}

// ListOrders untuk layar admin. Filter kosong berarti semua.
func (s *OrderService) ListOrders(ctx context.Context, status string, tableID uint) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items.Product").Preload("Table").Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if tableID != 0 {
		query = query.Where("table_id = ?", tableID)
	}

	var orders []models.Order
	if err := query.Limit(500).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items.Product").Preload("Table").First(&order, id).Error; err != nil {
		return nil, notFound(err, "order", id)
	}
	return &order, nil
}
