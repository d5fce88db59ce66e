package models

import (
	"time"
)

// DBChange dicatat oleh callback gorm setiap kali tabel yang dipantau berubah,
// lalu dibaca ChangeMonitor untuk disiarkan.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   string    `gorm:"type:varchar(64)"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"not null;index"`
	Processed  bool      `gorm:"not null;default:false;index:idx_processed"`
}

// Jenis perubahan
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)
