package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type TableCorrection struct {
	TableID    uint            `json:"table_id"`
	FromStatus string          `json:"from_status"`
	ToStatus   string          `json:"to_status"`
	FromTotal  decimal.Decimal `json:"from_total"`
	ToTotal    decimal.Decimal `json:"to_total"`
}

type ReconcileReport struct {
	TablesChecked        int               `json:"tables_checked"`
	TablesCorrected      int               `json:"tables_corrected"`
	GhostOrdersFinalized int               `json:"ghost_orders_finalized"`
	Corrections          []TableCorrection `json:"corrections,omitempty"`
}

// Reconciler menyamakan status dan total meja dengan order yang masih
// terbuka, dan menutup order kosong.
type Reconciler struct {
	db       *gorm.DB
	notifier Notifier
	mu       sync.Mutex
}

func NewReconciler(db *gorm.DB, notifier Notifier) *Reconciler {
	return &Reconciler{db: db, notifier: notifier}
}

// ReconcileAll menjalankan satu putaran rekonsiliasi. Putaran tidak pernah
// berjalan bersamaan.
func (r *Reconciler) ReconcileAll(ctx context.Context) (ReconcileReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report ReconcileReport
	db := r.db.WithContext(ctx)

	var openOrders []models.Order
	if err := db.Preload("Items").
		Where("status NOT IN ?", models.ClosedOrderStatuses).
		Find(&openOrders).Error; err != nil {
		return report, err
	}

	var ghostIDs []uint
	totals := make(map[uint]decimal.Decimal)
	counts := make(map[uint]int)
	for i := range openOrders {
		order := &openOrders[i]
		if len(order.Items) == 0 {
			ghostIDs = append(ghostIDs, order.ID)
			continue
		}
		if order.TableID == nil {
			continue
		}
		totals[*order.TableID] = totals[*order.TableID].Add(order.ItemsTotal())
		counts[*order.TableID] += len(order.Items)
	}

	if len(ghostIDs) > 0 {
		n, err := finalizeGhostOrders(db, ghostIDs)
		if err != nil {
			return report, err
		}
		report.GhostOrdersFinalized = int(n)
	}

	var tables []models.Table
	if err := db.Order("id").Find(&tables).Error; err != nil {
		return report, err
	}
	report.TablesChecked = len(tables)

	for _, table := range tables {
		status, total := desiredTableState(table.Status, counts[table.ID], totals[table.ID])
		if !tableNeedsCorrection(table, status, total) {
			continue
		}

		// Snapshot bisa sudah basi, hitung ulang di dalam transaksi
		var correction *TableCorrection
		err := db.Transaction(func(tx *gorm.DB) error {
			var fresh models.Table
			if err := tx.First(&fresh, table.ID).Error; err != nil {
				return err
			}
			before := fresh
			changed, err := syncTable(tx, table.ID)
			if err != nil || !changed {
				return err
			}
			var after models.Table
			if err := tx.First(&after, table.ID).Error; err != nil {
				return err
			}
			correction = &TableCorrection{
				TableID:    table.ID,
				FromStatus: before.Status,
				ToStatus:   after.Status,
				FromTotal:  before.TotalAmount,
				ToTotal:    after.TotalAmount,
			}
			return nil
		})
		if err != nil {
			utils.ErrorLogger.Errorf("Error reconciling table %d: %v", table.ID, err)
			continue
		}
		if correction != nil {
			report.TablesCorrected++
			report.Corrections = append(report.Corrections, *correction)
			utils.InfoLogger.Printf("Table %d corrected: %s/%s -> %s/%s", correction.TableID,
				correction.FromStatus, correction.FromTotal.StringFixed(2),
				correction.ToStatus, correction.ToTotal.StringFixed(2))
		}
	}

	if r.notifier != nil && (report.TablesCorrected > 0 || report.GhostOrdersFinalized > 0) {
		r.notifier.Broadcast(kds.EventReconciled, report)
	}
	return report, nil
}

// finalizeGhostOrders hanya menutup order yang memang masih tanpa item.
func finalizeGhostOrders(tx *gorm.DB, ids []uint) (int64, error) {
	res := tx.Model(&models.Order{}).
		Where("id IN ? AND status NOT IN ?", ids, models.ClosedOrderStatuses).
		Where("NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id)").
		Updates(map[string]interface{}{
			"status":       models.OrderFinalized,
			"finalized_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Finalized %d orders without items", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// OnSignal dipakai sebagai konsumen realtime.Trigger
func (r *Reconciler) OnSignal(ctx context.Context, sig realtime.Signal) {
	report, err := r.ReconcileAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			utils.ErrorLogger.Errorf("Reconciliation (%s) failed: %v", sig.Reason, err)
		}
		return
	}
	if report.TablesCorrected > 0 || report.GhostOrdersFinalized > 0 {
		utils.InfoLogger.Printf("Reconciliation (%s): %d tables checked, %d corrected, %d ghost orders finalized",
			sig.Reason, report.TablesChecked, report.TablesCorrected, report.GhostOrdersFinalized)
	}
}
