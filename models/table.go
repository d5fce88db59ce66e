package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table menyimpan status meja. TotalAmount adalah nilai turunan dari
// order_items yang masih terbuka dan dihitung ulang oleh reconciler.
type Table struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(50);not null" json:"name"`
	Status      string          `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}
