package models

import "time"

// InventoryLog adalah jejak audit penyesuaian stok (append-only).
type InventoryLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    string    `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Product      *Product  `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product,omitempty"`
	ChangeAmount int       `gorm:"not null" json:"change_amount"`
	Reason       string    `gorm:"type:varchar(255);not null" json:"reason"`
	UserID       *uint     `json:"user_id,omitempty"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}
