package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestSummarizeLedger(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	txns := []models.FinancialTransaction{
		{Amount: money("100.00"), Type: models.TransactionIncome, Status: models.TransactionPaid, DueDate: now},
		{Amount: money("40.00"), Type: models.TransactionExpense, Status: models.TransactionPaid, DueDate: now},
		{Amount: money("25.00"), Type: models.TransactionIncome, Status: models.TransactionPending, DueDate: now.Add(-24 * time.Hour)},
		{Amount: money("60.00"), Type: models.TransactionExpense, Status: models.TransactionPending, DueDate: now.Add(24 * time.Hour)},
		{Amount: money("15.00"), Type: models.TransactionExpense, Status: models.TransactionPending, DueDate: now.Add(-time.Hour)},
	}

	summary := SummarizeLedger(txns, now)
	assert.Equal(t, "100.00", summary.PaidIncome.StringFixed(2))
	assert.Equal(t, "40.00", summary.PaidExpense.StringFixed(2))
	assert.Equal(t, "25.00", summary.PendingReceivable.StringFixed(2))
	assert.Equal(t, "75.00", summary.PendingPayable.StringFixed(2))
	assert.Equal(t, "60.00", summary.Balance.StringFixed(2))
	assert.Equal(t, 2, summary.Overdue)
}

func TestValidateTransaction(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	txn := models.FinancialTransaction{Description: " Aluguel ", Amount: money("1500"), Type: "Expense", DueDate: due}
	require.NoError(t, ValidateTransaction(&txn))
	assert.Equal(t, "Aluguel", txn.Description)
	assert.Equal(t, models.TransactionExpense, txn.Type)
	assert.Equal(t, models.TransactionPending, txn.Status)
	assert.Nil(t, txn.PaidAt)

	paid := models.FinancialTransaction{Description: "Evento", Amount: money("300"), Type: "income", Status: "paid", DueDate: due}
	require.NoError(t, ValidateTransaction(&paid))
	assert.NotNil(t, paid.PaidAt)

	bad := []models.FinancialTransaction{
		{Description: "", Amount: money("1"), Type: "income", DueDate: due},
		{Description: "x", Amount: money("0"), Type: "income", DueDate: due},
		{Description: "x", Amount: money("1"), Type: "transfer", DueDate: due},
		{Description: "x", Amount: money("1"), Type: "income", Status: "late", DueDate: due},
		{Description: "x", Amount: money("1"), Type: "income"},
	}
	for i := range bad {
		assert.ErrorIs(t, ValidateTransaction(&bad[i]), ErrInvalidInput, "case %d", i)
	}
}
