package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

const (
	changeBatchSize   = 100
	changeRetention   = time.Hour
	pruneEveryNChecks = 60
)

// ChangeMonitor membaca baris db_changes yang belum diproses, menyiarkannya
// ke feed lalu menandainya processed.
type ChangeMonitor struct {
	DB       *gorm.DB
	Feed     realtime.Feed
	Interval time.Duration

	checks int
}

func NewChangeMonitor(db *gorm.DB, feed realtime.Feed, interval time.Duration) *ChangeMonitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &ChangeMonitor{
		DB:       db,
		Feed:     feed,
		Interval: interval,
	}
}

// Run polling sampai ctx selesai
func (cm *ChangeMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(cm.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := cm.CheckChanges(ctx); err != nil && ctx.Err() == nil {
				utils.ErrorLogger.Errorf("Error processing changes: %v", err)
			}
			cm.checks++
			if cm.checks%pruneEveryNChecks == 0 {
				if err := cm.Prune(ctx, time.Now().UTC().Add(-changeRetention)); err != nil && ctx.Err() == nil {
					utils.ErrorLogger.Errorf("Error pruning processed changes: %v", err)
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// CheckChanges memproses satu batch dan mengembalikan jumlah perubahan yang
// disiarkan.
func (cm *ChangeMonitor) CheckChanges(ctx context.Context) (int, error) {
	db := cm.DB.WithContext(ctx)

	var changes []models.DBChange
	if err := db.Where("processed = ?", false).
		Order("id ASC").
		Limit(changeBatchSize).
		Find(&changes).Error; err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(changes))
	for _, change := range changes {
		utils.InfoLogger.Debugf("Processing change: table=%s, action=%s, record_id=%s",
			change.TableName, change.ActionType, change.RecordID)

		err := cm.Feed.Publish(ctx, realtime.Change{
			Table:    change.TableName,
			RecordID: change.RecordID,
			Action:   change.ActionType,
			At:       change.ChangedAt,
		})
		if err != nil {
			// Sisanya dicoba lagi pada putaran berikutnya
			utils.ErrorLogger.Errorf("Error publishing change %d: %v", change.ID, err)
			break
		}
		ids = append(ids, change.ID)
	}

	if len(ids) > 0 {
		if err := db.Model(&models.DBChange{}).
			Where("id IN ?", ids).
			Update("processed", true).Error; err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// Prune menghapus baris yang sudah diproses sebelum cutoff.
func (cm *ChangeMonitor) Prune(ctx context.Context, cutoff time.Time) error {
	res := cm.DB.WithContext(ctx).
		Where("processed = ? AND changed_at < ?", true, cutoff).
		Delete(&models.DBChange{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Pruned %d processed changes", res.RowsAffected)
	}
	return nil
}
