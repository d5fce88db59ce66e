package models

import "time"

// SettingsID adalah primary key baris settings (singleton)
const SettingsID = 1

type Settings struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	RestaurantName        string    `gorm:"type:varchar(255);not null" json:"restaurant_name"`
	Currency              string    `gorm:"type:varchar(3);not null;default:'BRL'" json:"currency"`
	QROrderingEnabled     bool      `gorm:"not null" json:"qr_ordering_enabled"`
	KitchenDisplayEnabled bool      `gorm:"not null" json:"kitchen_display_enabled"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DefaultSettings dipakai saat baris settings belum ada
func DefaultSettings() Settings {
	return Settings{
		ID:                    SettingsID,
		RestaurantName:        "Restaurante",
		Currency:              "BRL",
		QROrderingEnabled:     true,
		KitchenDisplayEnabled: true,
	}
}
