package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialTransaction adalah buku kas manual (hutang/piutang), tidak
// terhubung dengan pendapatan order.
type FinancialTransaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Description  string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type         string          `gorm:"type:varchar(10);not null;index" json:"type"`
	Status       string          `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	DueDate      time.Time       `gorm:"not null" json:"due_date"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	Counterparty string          `gorm:"type:varchar(255)" json:"counterparty"`
	Category     string          `gorm:"type:varchar(100)" json:"category"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}
