package database

import (
	"fmt"
	"reflect"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// WatchedTables adalah tabel yang perubahannya disiarkan ke terminal lain
var WatchedTables = []string{"tables", "orders", "order_items", "products", "categories"}

// RegisterChangeCapture memasang callback gorm yang menulis baris db_changes
// setiap create/update/delete pada tabel yang dipantau. Baris ditulis pada
// koneksi yang sama sehingga ikut transaksi pemanggil.
func RegisterChangeCapture(db *gorm.DB, tables ...string) error {
	if len(tables) == 0 {
		tables = WatchedTables
	}
	watched := make(map[string]bool, len(tables))
	for _, t := range tables {
		watched[t] = true
	}

	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("pos:capture_create", capture(watched, models.ActionInsert)); err != nil {
		return fmt.Errorf("register create capture: %w", err)
	}
	if err := cb.Update().After("gorm:update").Register("pos:capture_update", capture(watched, models.ActionUpdate)); err != nil {
		return fmt.Errorf("register update capture: %w", err)
	}
	if err := cb.Delete().After("gorm:delete").Register("pos:capture_delete", capture(watched, models.ActionDelete)); err != nil {
		return fmt.Errorf("register delete capture: %w", err)
	}
	return nil
}

func capture(watched map[string]bool, action string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.RowsAffected == 0 {
			return
		}
		table := tx.Statement.Table
		if !watched[table] {
			return
		}

		now := time.Now().UTC()
		ids := primaryKeys(tx)
		if len(ids) == 0 {
			// update massal tanpa primary key, catat di level tabel
			ids = []string{""}
		}

		changes := make([]models.DBChange, 0, len(ids))
		for _, id := range ids {
			changes = append(changes, models.DBChange{
				TableName:  table,
				RecordID:   id,
				ActionType: action,
				ChangedAt:  now,
			})
		}

		if err := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Create(&changes).Error; err != nil {
			utils.ErrorLogger.Errorf("Error recording change for %s: %v", table, err)
		}
	}
}

func primaryKeys(tx *gorm.DB) []string {
	if tx.Statement.Schema == nil || tx.Statement.Schema.PrioritizedPrimaryField == nil {
		return nil
	}
	field := tx.Statement.Schema.PrioritizedPrimaryField
	ctx := tx.Statement.Context

	var ids []string
	rv := reflect.Indirect(tx.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := reflect.Indirect(rv.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			if v, zero := field.ValueOf(ctx, elem); !zero {
				ids = append(ids, fmt.Sprint(v))
			}
		}
	case reflect.Struct:
		if v, zero := field.ValueOf(ctx, rv); !zero {
			ids = append(ids, fmt.Sprint(v))
		}
	}
	return ids
}
