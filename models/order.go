package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TableID        *uint           `gorm:"index" json:"table_id"`
	Table          *Table          `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"table,omitempty"`
	Status         string          `gorm:"type:varchar(20);not null;default:'queued';index" json:"status"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Source         string          `gorm:"type:varchar(10);not null;default:'pdv'" json:"source"`
	IdempotencyKey *string         `gorm:"type:varchar(64);uniqueIndex" json:"idempotency_key,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	ReadyAt        *time.Time      `json:"ready_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	FinalizedAt    *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

func (o *Order) IsOpen() bool {
	return IsOpenOrderStatus(o.Status)
}

func (o *Order) IsCounterSale() bool {
	return o.TableID == nil
}

// ItemsTotal menjumlahkan subtotal item, sumber kebenaran untuk nilai order.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Label dipakai di log dan layar dapur
func (o *Order) Label() string {
	if o.IsCounterSale() {
		return fmt.Sprintf("Order #%d (counter)", o.ID)
	}
	return fmt.Sprintf("Order #%d (mesa %d)", o.ID, *o.TableID)
}
