package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

const defaultLogLimit = 100

type AdjustInput struct {
	ProductID string
	Delta     int
	Reason    string
	UserID    *uint
}

type AdjustResult struct {
	Product models.Product      `json:"product"`
	Log     models.InventoryLog `json:"log"`
}

type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// Adjust menambah/mengurangi stok dan mencatat alasannya. Stok boleh
// negatif.
func (s *InventoryService) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	productID := strings.TrimSpace(in.ProductID)
	reason := strings.TrimSpace(in.Reason)
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	if in.Delta == 0 {
		return nil, fmt.Errorf("%w: adjustment must not be zero", ErrInvalidInput)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	var result AdjustResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&result.Product, "id = ?", productID).Error; err != nil {
			return notFound(err, "product", productID)
		}

		log, err := applyStockChange(tx, productID, in.Delta, reason, in.UserID)
		if err != nil {
			return err
		}
		result.Log = *log

		return tx.First(&result.Product, "id = ?", productID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Stock of %s adjusted by %+d (%s), now %d", result.Product.Name, in.Delta, reason, result.Product.StockQuantity)
	return &result, nil
}

// applyStockChange mengubah stok dan menulis log audit pada transaksi tx.
func applyStockChange(tx *gorm.DB, productID string, delta int, reason string, userID *uint) (*models.InventoryLog, error) {
	res := tx.Model(&models.Product{ID: productID}).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	log := models.InventoryLog{
		ProductID:    productID,
		ChangeAmount: delta,
		Reason:       reason,
		UserID:       userID,
	}
	if err := tx.Create(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// Logs mengembalikan jejak audit terbaru dulu. productID kosong berarti
// semua produk.
func (s *InventoryService) Logs(ctx context.Context, productID string, limit int) ([]models.InventoryLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultLogLimit
	}

	query := s.db.WithContext(ctx).Preload("Product").Order("created_at DESC, id DESC").Limit(limit)
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var logs []models.InventoryLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
