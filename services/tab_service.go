package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type ReceiptLine struct {
	ItemID      uint            `json:"item_id"`
	OrderID     uint            `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Notes       string          `json:"notes,omitempty"`
}

// Receipt adalah tagihan gabungan semua order terbuka dari satu meja
// (atau satu order kasir).
type Receipt struct {
	TableID        *uint           `json:"table_id"`
	TableName      string          `json:"table_name,omitempty"`
	OrderIDs       []uint          `json:"order_ids"`
	Lines          []ReceiptLine   `json:"lines"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	TotalFormatted string          `json:"total_formatted"`
}

type Bill struct {
	TableID        *uint           `json:"table_id"`
	OrderIDs       []uint          `json:"order_ids"`
	Total          decimal.Decimal `json:"total"`
	TotalFormatted string          `json:"total_formatted"`
	ClosedAt       time.Time       `json:"closed_at"`
}

type DeleteItemResult struct {
	ItemID         uint `json:"item_id"`
	OrderID        uint `json:"order_id"`
	OrderFinalized bool `json:"order_finalized"`
	TableFreed     bool `json:"table_freed"`
}

type TabService struct {
	db *gorm.DB
}

func NewTabService(db *gorm.DB) *TabService {
	return &TabService{db: db}
}

func buildReceipt(orders []models.Order, settings models.Settings) *Receipt {
	receipt := &Receipt{
		OrderIDs: make([]uint, 0, len(orders)),
		Lines:    []ReceiptLine{},
		Total:    decimal.Zero,
		Currency: settings.Currency,
	}
	for _, order := range orders {
		receipt.OrderIDs = append(receipt.OrderIDs, order.ID)
		for _, item := range order.Items {
			line := ReceiptLine{
				ItemID:    item.ID,
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal(),
				Notes:     item.Notes,
			}
			if item.Product != nil {
				line.ProductName = item.Product.Name
			}
			receipt.Lines = append(receipt.Lines, line)
			receipt.Total = receipt.Total.Add(line.Subtotal)
		}
	}
	receipt.TotalFormatted = utils.FormatMoney(receipt.Total, settings.Currency)
	return receipt
}

// Receipt menggabungkan item dari semua order terbuka meja.
func (s *TabService) Receipt(ctx context.Context, tableID uint) (*Receipt, error) {
	db := s.db.WithContext(ctx)

	var table models.Table
	if err := db.First(&table, tableID).Error; err != nil {
		return nil, notFound(err, "table", tableID)
	}

	var orders []models.Order
	if err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Items.Product").
		Where("table_id = ? AND status NOT IN ?", tableID, models.ClosedOrderStatuses).
		Order("id").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	settings, err := loadSettings(db)
	if err != nil {
		return nil, err
	}

	receipt := buildReceipt(orders, settings)
	receipt.TableID = &table.ID
	receipt.TableName = table.Name
	return receipt, nil
}

// OrderReceipt untuk satu order, biasanya penjualan kasir.
func (s *TabService) OrderReceipt(ctx context.Context, orderID uint) (*Receipt, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Preload("Items.Product").Preload("Table").First(&order, orderID).Error; err != nil {
		return nil, notFound(err, "order", orderID)
	}

	settings, err := loadSettings(db)
	if err != nil {
		return nil, err
	}

	receipt := buildReceipt([]models.Order{order}, settings)
	receipt.TableID = order.TableID
	if order.Table != nil {
		receipt.TableName = order.Table.Name
	}
	return receipt, nil
}

func loadOpenItem(tx *gorm.DB, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.Preload("Order").First(&item, itemID).Error; err != nil {
		return nil, notFound(err, "order item", itemID)
	}
	if item.Order == nil || !item.Order.IsOpen() {
		return nil, fmt.Errorf("%w: order item %d belongs to a closed order", ErrConflict, itemID)
	}
	return &item, nil
}

// UpdateItemQuantity mengubah jumlah item lalu menghitung ulang total order
// dan meja. Stok tidak dikembalikan.
func (s *TabService) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	var updated models.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadOpenItem(tx, itemID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.OrderItem{ID: item.ID}).Update("quantity", quantity).Error; err != nil {
			return err
		}
		if _, _, err := refreshOrderTotal(tx, item.OrderID); err != nil {
			return err
		}
		if item.Order.TableID != nil {
			if _, _, err := refreshTableTotal(tx, *item.Order.TableID); err != nil {
				return err
			}
		}
		return tx.Preload("Product").First(&updated, item.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem menghapus item dari tagihan. Jika itu item terbuka terakhir di
// meja, semua order terbuka meja ditutup dan meja kembali available.
func (s *TabService) DeleteItem(ctx context.Context, itemID uint) (*DeleteItemResult, error) {
	var result DeleteItemResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadOpenItem(tx, itemID)
		if err != nil {
			return err
		}
		result = DeleteItemResult{ItemID: item.ID, OrderID: item.OrderID}
		now := time.Now().UTC()

		if err := tx.Delete(&models.OrderItem{ID: item.ID}).Error; err != nil {
			return err
		}

		tableID := item.Order.TableID
		if tableID != nil {
			remaining, err := openTableItems(tx, *tableID)
			if err != nil {
				return err
			}
			if len(remaining) == 0 {
				ids, err := openOrderIDs(tx, *tableID)
				if err != nil {
					return err
				}
				if _, err := finalizeOrders(tx, ids, now); err != nil {
					return err
				}
				if _, _, err := refreshOrderTotal(tx, item.OrderID); err != nil {
					return err
				}
				result.OrderFinalized = true
				result.TableFreed = true
				return tx.Model(&models.Table{ID: *tableID}).Updates(map[string]interface{}{
					"status":       models.TableAvailable,
					"total_amount": decimal.Zero,
				}).Error
			}
		}

		_, left, err := refreshOrderTotal(tx, item.OrderID)
		if err != nil {
			return err
		}
		if left == 0 {
			if _, err := finalizeOrders(tx, []uint{item.OrderID}, now); err != nil {
				return err
			}
			result.OrderFinalized = true
		}
		if tableID != nil {
			if _, _, err := refreshTableTotal(tx, *tableID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.TableFreed {
		utils.InfoLogger.Printf("Last item %d removed, table freed", itemID)
	}
	return &result, nil
}

// CloseTab menutup semua order terbuka meja dalam satu transaksi; meja
// menjadi dirty sampai dibersihkan.
func (s *TabService) CloseTab(ctx context.Context, tableID uint) (*Bill, error) {
	var bill Bill

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			return notFound(err, "table", tableID)
		}

		ids, err := openOrderIDs(tx, tableID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w: table %d has no open orders", ErrConflict, tableID)
		}

		var items []models.OrderItem
		if err := tx.Where("order_id IN ?", ids).Find(&items).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		if _, err := finalizeOrders(tx, ids, now); err != nil {
			return err
		}
		if err := tx.Model(&models.Table{ID: tableID}).Updates(map[string]interface{}{
			"status":       models.TableDirty,
			"total_amount": decimal.Zero,
		}).Error; err != nil {
			return err
		}

		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}

		total := sumItems(items)
		bill = Bill{
			TableID:        &table.ID,
			OrderIDs:       ids,
			Total:          total,
			TotalFormatted: utils.FormatMoney(total, settings.Currency),
			ClosedAt:       now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Tab for table %d closed: %d orders, total %s", tableID, len(bill.OrderIDs), bill.Total.StringFixed(2))
	return &bill, nil
}

// CloseOrder menutup satu order. Meja yang tidak lagi punya item terbuka
// menjadi dirty.
func (s *TabService) CloseOrder(ctx context.Context, orderID uint) (*Bill, error) {
	var bill Bill

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return notFound(err, "order", orderID)
		}
		if !order.IsOpen() {
			return fmt.Errorf("%w: order %d is already %s", ErrConflict, orderID, order.Status)
		}

		now := time.Now().UTC()
		n, err := finalizeOrders(tx, []uint{order.ID}, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: order %d was closed by another terminal", ErrConflict, orderID)
		}

		if order.TableID != nil {
			if _, err := syncTable(tx, *order.TableID); err != nil {
				return err
			}
		}

		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}

		total := order.ItemsTotal()
		bill = Bill{
			TableID:        order.TableID,
			OrderIDs:       []uint{order.ID},
			Total:          total,
			TotalFormatted: utils.FormatMoney(total, settings.Currency),
			ClosedAt:       now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// CancelOrder membatalkan order yang belum diantar dan mengembalikan stok.
func (s *TabService) CancelOrder(ctx context.Context, orderID uint, userID *uint) (*models.Order, error) {
	var cancelled models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return notFound(err, "order", orderID)
		}
		if !order.IsOpen() || order.Status == models.OrderDelivered {
			return fmt.Errorf("%w: order %d is %s and cannot be cancelled", ErrConflict, orderID, order.Status)
		}

		res := tx.Model(&models.Order{ID: order.ID}).
			Where("status = ?", order.Status).
			Update("status", models.OrderCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d was changed by another terminal", ErrConflict, orderID)
		}

		reason := fmt.Sprintf("order #%d cancelled", order.ID)
		for _, item := range order.Items {
			if _, err := applyStockChange(tx, item.ProductID, item.Quantity, reason, userID); err != nil {
				return err
			}
		}

		if order.TableID != nil {
			if _, err := syncTable(tx, *order.TableID); err != nil {
				return err
			}
		}
		return tx.Preload("Items.Product").First(&cancelled, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("%s cancelled", cancelled.Label())
	return &cancelled, nil
}

// MarkTableClean: dirty -> available
func (s *TabService) MarkTableClean(ctx context.Context, tableID uint) (*models.Table, error) {
	var table models.Table

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, tableID).Error; err != nil {
			return notFound(err, "table", tableID)
		}
		if table.Status != models.TableDirty {
			return fmt.Errorf("%w: table %d is %s, not dirty", ErrConflict, tableID, table.Status)
		}

		res := tx.Model(&models.Table{ID: table.ID}).
			Where("status = ?", models.TableDirty).
			Updates(map[string]interface{}{
				"status":       models.TableAvailable,
				"total_amount": decimal.Zero,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: table %d was changed by another terminal", ErrConflict, tableID)
		}
		return tx.First(&table, tableID).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}
