package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"gorm.io/gorm"
)

func sumItems(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}
	return total
}

// openTableItems mengambil semua item dari order meja yang masih terbuka.
func openTableItems(tx *gorm.DB, tableID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := tx.Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.table_id = ? AND orders.status NOT IN ?", tableID, models.ClosedOrderStatuses).
		Find(&items).Error
	return items, err
}

// desiredTableState: meja dengan item terbuka selalu occupied dengan total
// sesuai item; meja tanpa item bernilai 0 dan occupied berubah jadi dirty.
func desiredTableState(currentStatus string, itemCount int, itemsTotal decimal.Decimal) (string, decimal.Decimal) {
	if itemCount > 0 {
		return models.TableOccupied, itemsTotal
	}
	if currentStatus == models.TableOccupied {
		return models.TableDirty, decimal.Zero
	}
	return currentStatus, decimal.Zero
}

func tableNeedsCorrection(table models.Table, status string, total decimal.Decimal) bool {
	return table.Status != status || !table.TotalAmount.Equal(total)
}

// syncTable menerapkan desiredTableState pada satu meja. Mengembalikan
// true jika ada yang diubah.
func syncTable(tx *gorm.DB, tableID uint) (bool, error) {
	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		return false, notFound(err, "table", tableID)
	}

	items, err := openTableItems(tx, tableID)
	if err != nil {
		return false, err
	}

	status, total := desiredTableState(table.Status, len(items), sumItems(items))
	if !tableNeedsCorrection(table, status, total) {
		return false, nil
	}

	err = tx.Model(&models.Table{ID: tableID}).Updates(map[string]interface{}{
		"status":       status,
		"total_amount": total,
	}).Error
	return err == nil, err
}

// refreshTableTotal hanya menghitung ulang total meja, status tidak disentuh.
func refreshTableTotal(tx *gorm.DB, tableID uint) (decimal.Decimal, int, error) {
	items, err := openTableItems(tx, tableID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := sumItems(items)
	err = tx.Model(&models.Table{ID: tableID}).Update("total_amount", total).Error
	return total, len(items), err
}

// refreshOrderTotal menyamakan orders.total_amount dengan jumlah itemnya.
func refreshOrderTotal(tx *gorm.DB, orderID uint) (decimal.Decimal, int, error) {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return decimal.Zero, 0, err
	}
	total := sumItems(items)
	err := tx.Model(&models.Order{ID: orderID}).Update("total_amount", total).Error
	return total, len(items), err
}

// finalizeOrders menutup order yang masih terbuka di antara ids.
func finalizeOrders(tx *gorm.DB, ids []uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Model(&models.Order{}).
		Where("id IN ? AND status NOT IN ?", ids, models.ClosedOrderStatuses).
		Updates(map[string]interface{}{
			"status":       models.OrderFinalized,
			"finalized_at": at,
		})
	return res.RowsAffected, res.Error
}

func openOrderIDs(tx *gorm.DB, tableID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Order{}).
		Where("table_id = ? AND status NOT IN ?", tableID, models.ClosedOrderStatuses).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// loadSettings mengembalikan settings default jika barisnya belum ada.
func loadSettings(tx *gorm.DB) (models.Settings, error) {
	var settings models.Settings
	err := tx.First(&settings, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	return settings, err
}
