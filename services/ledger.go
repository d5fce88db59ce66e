package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
)

type LedgerSummary struct {
	PendingReceivable decimal.Decimal `json:"pending_receivable"`
	PendingPayable    decimal.Decimal `json:"pending_payable"`
	PaidIncome        decimal.Decimal `json:"paid_income"`
	PaidExpense       decimal.Decimal `json:"paid_expense"`
	Balance           decimal.Decimal `json:"balance"`
	Overdue           int             `json:"overdue"`
}

// SummarizeLedger menghitung ringkasan buku kas. Transaksi pending dengan
// due date sebelum now dihitung overdue.
func SummarizeLedger(txns []models.FinancialTransaction, now time.Time) LedgerSummary {
	summary := LedgerSummary{
		PendingReceivable: decimal.Zero,
		PendingPayable:    decimal.Zero,
		PaidIncome:        decimal.Zero,
		PaidExpense:       decimal.Zero,
		Balance:           decimal.Zero,
	}

	for _, t := range txns {
		switch {
		case t.Status == models.TransactionPaid && t.Type == models.TransactionIncome:
			summary.PaidIncome = summary.PaidIncome.Add(t.Amount)
		case t.Status == models.TransactionPaid && t.Type == models.TransactionExpense:
			summary.PaidExpense = summary.PaidExpense.Add(t.Amount)
		case t.Type == models.TransactionIncome:
			summary.PendingReceivable = summary.PendingReceivable.Add(t.Amount)
		default:
			summary.PendingPayable = summary.PendingPayable.Add(t.Amount)
		}
		if t.Status == models.TransactionPending && t.DueDate.Before(now) {
			summary.Overdue++
		}
	}

	summary.Balance = summary.PaidIncome.Sub(summary.PaidExpense)
	return summary
}

// ValidateTransaction menormalkan dan memeriksa entri buku kas sebelum
// disimpan.
func ValidateTransaction(t *models.FinancialTransaction) error {
	t.Description = strings.TrimSpace(t.Description)
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	t.Status = strings.ToLower(strings.TrimSpace(t.Status))

	if t.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if t.Type != models.TransactionIncome && t.Type != models.TransactionExpense {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalidInput)
	}
	if t.Status == "" {
		t.Status = models.TransactionPending
	}
	if t.Status != models.TransactionPending && t.Status != models.TransactionPaid {
		return fmt.Errorf("%w: status must be pending or paid", ErrInvalidInput)
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("%w: due_date is required", ErrInvalidInput)
	}
	if t.Status == models.TransactionPaid && t.PaidAt == nil {
		now := time.Now().UTC()
		t.PaidAt = &now
	}
	if t.Status == models.TransactionPending {
		t.PaidAt = nil
	}
	return nil
}
