package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// Alur dapur hanya maju
var kitchenFlow = map[string]string{
	models.OrderQueued:    models.OrderPreparing,
	models.OrderPreparing: models.OrderReady,
	models.OrderReady:     models.OrderDelivered,
}

// Kolom waktu yang diisi saat status tercapai
var kitchenTimestamps = map[string]string{
	models.OrderPreparing: "started_at",
	models.OrderReady:     "ready_at",
	models.OrderDelivered: "delivered_at",
}

var activeKitchenStatuses = []string{models.OrderQueued, models.OrderPreparing, models.OrderReady}

// NextStatus mengembalikan satu-satunya status berikut dari alur dapur.
func NextStatus(current string) (string, bool) {
	next, ok := kitchenFlow[current]
	return next, ok
}

type KitchenSnapshot struct {
	Orders []models.Order `json:"orders"`
	NewIDs []uint         `json:"new_ids"`
	At     time.Time      `json:"at"`
}

type KitchenService struct {
	db       *gorm.DB
	tracker  *ArrivalTracker
	notifier Notifier
}

func NewKitchenService(db *gorm.DB, tracker *ArrivalTracker, notifier Notifier) *KitchenService {
	return &KitchenService{db: db, tracker: tracker, notifier: notifier}
}

// ActiveOrders: queued/preparing/ready, paling lama di depan.
func (s *KitchenService) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Table").
		Where("status IN ?", activeKitchenStatuses).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

// Snapshot mengambil order aktif dan menandai yang baru masuk.
func (s *KitchenService) Snapshot(ctx context.Context) (*KitchenSnapshot, error) {
	orders, err := s.ActiveOrders(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	newIDs := []uint{}
	if s.tracker != nil {
		newIDs = s.tracker.Observe(ids)
	}
	return &KitchenSnapshot{Orders: orders, NewIDs: newIDs, At: time.Now().UTC()}, nil
}

// Advance memajukan order satu langkah. Update memakai status lama sebagai
// syarat, sehingga dua klik bersamaan tidak bisa melompati langkah.
func (s *KitchenService) Advance(ctx context.Context, orderID uint) (*models.Order, error) {
	var updated models.Order
	var tableUpdate *TableUpdate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFound(err, "order", orderID)
		}

		next, ok := NextStatus(order.Status)
		if !ok {
			return fmt.Errorf("%w: order %d is %s and cannot advance", ErrConflict, orderID, order.Status)
		}

		res := tx.Model(&models.Order{ID: order.ID}).
			Where("status = ?", order.Status).
			Updates(map[string]interface{}{
				"status":                next,
				kitchenTimestamps[next]: time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d was changed by another terminal", ErrConflict, orderID)
		}

		if next == models.OrderDelivered && order.TableID != nil {
			total, _, err := refreshTableTotal(tx, *order.TableID)
			if err != nil {
				return err
			}
			var table models.Table
			if err := tx.First(&table, *order.TableID).Error; err != nil {
				return err
			}
			tableUpdate = &TableUpdate{TableID: table.ID, Status: table.Status, TotalAmount: total}
		}

		return tx.Preload("Items.Product").First(&updated, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("%s advanced to %s", updated.Label(), updated.Status)
	if s.notifier != nil {
		s.notifier.BroadcastOrderUpdate(orderUpdateOf(&updated))
		if tableUpdate != nil {
			s.notifier.BroadcastTableUpdate(*tableUpdate)
		}
	}
	return &updated, nil
}

// Broadcaster mendorong snapshot dapur ke websocket setiap kali trigger
// berbunyi.
type KitchenBroadcaster struct {
	service  *KitchenService
	notifier Notifier
	db       *gorm.DB
}

func NewKitchenBroadcaster(db *gorm.DB, service *KitchenService, notifier Notifier) *KitchenBroadcaster {
	return &KitchenBroadcaster{service: service, notifier: notifier, db: db}
}

func (b *KitchenBroadcaster) OnSignal(ctx context.Context, sig realtime.Signal) {
	settings, err := loadSettings(b.db.WithContext(ctx))
	if err != nil {
		utils.ErrorLogger.Errorf("Error loading settings for kitchen display: %v", err)
		return
	}
	if !settings.KitchenDisplayEnabled {
		return
	}

	snapshot, err := b.service.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			utils.ErrorLogger.Errorf("Kitchen refresh (%s) failed: %v", sig.Reason, err)
		}
		return
	}
	b.notifier.BroadcastKitchenUpdate(snapshot)
}
