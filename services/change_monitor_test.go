package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"gorm.io/gorm"
)

type failingFeed struct {
	realtime.Feed
}

func (failingFeed) Publish(context.Context, realtime.Change) error {
	return errors.New("broker down")
}

func TestChangeCaptureAndMonitor(t *testing.T) {
	db := setupTestDB(t)
	feed := realtime.NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	seedTable(t, db, 5, models.TableAvailable)
	require.NoError(t, db.Model(&models.Table{ID: 5}).Update("status", models.TableOccupied).Error)

	monitor := NewChangeMonitor(db, feed, time.Second)
	n, err := monitor.CheckChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first := <-sub
	assert.Equal(t, "tables", first.Table)
	assert.Equal(t, "5", first.RecordID)
	assert.Equal(t, models.ActionInsert, first.Action)
	second := <-sub
	assert.Equal(t, models.ActionUpdate, second.Action)

	var pending int64
	db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Zero(t, pending)

	n, err = monitor.CheckChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChangeCaptureIgnoresUnwatchedTables(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.FinancialTransaction{
		Description: "Aluguel", Amount: money("10"), Type: models.TransactionExpense,
		Status: models.TransactionPending, DueDate: time.Now().UTC(),
	}).Error)

	var count int64
	db.Model(&models.DBChange{}).Count(&count)
	assert.Zero(t, count)
}

func TestChangeCaptureFollowsRollback(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Table{ID: 8, Name: "Mesa 8", Status: models.TableAvailable}).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	db.Model(&models.DBChange{}).Where("table_name = ? AND record_id = ?", "tables", "8").Count(&count)
	assert.Zero(t, count)
}

func TestChangeMonitorKeepsUnpublishedChanges(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 1, models.TableAvailable)

	monitor := NewChangeMonitor(db, failingFeed{}, time.Second)
	n, err := monitor.CheckChanges(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	var pending int64
	db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Equal(t, int64(1), pending)
}

func TestChangeMonitorPrune(t *testing.T) {
	db := setupTestDB(t)
	old := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.Create(&[]models.DBChange{
		{TableName: "tables", RecordID: "1", ActionType: models.ActionUpdate, ChangedAt: old, Processed: true},
		{TableName: "tables", RecordID: "2", ActionType: models.ActionUpdate, ChangedAt: old, Processed: false},
		{TableName: "tables", RecordID: "3", ActionType: models.ActionUpdate, ChangedAt: time.Now().UTC(), Processed: true},
	}).Error)

	monitor := NewChangeMonitor(db, realtime.NewLocalFeed(), time.Second)
	require.NoError(t, monitor.Prune(context.Background(), time.Now().UTC().Add(-time.Hour)))

	var remaining []models.DBChange
	require.NoError(t, db.Order("record_id").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "2", remaining[0].RecordID)
	assert.Equal(t, "3", remaining[1].RecordID)
}
