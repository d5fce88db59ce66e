package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestLedgerLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, models.RoleAdmin)
	due := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)

	w := s.do(t, http.MethodPost, "/admin/ledger", map[string]interface{}{
		"description":  "Fornecedor de bebidas",
		"amount":       "350.00",
		"type":         "expense",
		"due_date":     due,
		"counterparty": "Distribuidora Sul",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.TransactionPending, created["status"])
	id := uint(created["id"].(float64))

	w = s.do(t, http.MethodPost, "/admin/ledger", map[string]interface{}{
		"description": "Evento",
		"amount":      "1200",
		"type":        "income",
		"status":      "paid",
		"due_date":    due,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/admin/ledger/summary", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody(t, w)["data"].(map[string]interface{})
	assert.True(t, jsonMoney(t, summary["pending_payable"]).Equal(money("350")))
	assert.True(t, jsonMoney(t, summary["paid_income"]).Equal(money("1200")))
	assert.EqualValues(t, 1, summary["overdue"])

	w = s.do(t, http.MethodPost, "/admin/ledger/"+itoa(id)+"/pay", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.TransactionPaid, decodeBody(t, w)["data"].(map[string]interface{})["status"])

	w = s.do(t, http.MethodPost, "/admin/ledger/"+itoa(id)+"/pay", nil, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/admin/ledger/summary", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	summary = decodeBody(t, w)["data"].(map[string]interface{})
	assert.True(t, jsonMoney(t, summary["balance"]).Equal(money("850")))
	assert.EqualValues(t, 0, summary["overdue"])

	w = s.do(t, http.MethodDelete, "/admin/ledger/"+itoa(id), nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/admin/ledger/"+itoa(id), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLedgerValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, models.RoleAdmin)

	w := s.do(t, http.MethodPost, "/admin/ledger", map[string]interface{}{
		"description": "Aluguel",
		"amount":      "0",
		"type":        "expense",
		"due_date":    time.Now().UTC().Format(time.RFC3339),
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/admin/ledger", map[string]interface{}{
		"description": "Aluguel",
		"amount":      "900",
		"type":        "transfer",
		"due_date":    time.Now().UTC().Format(time.RFC3339),
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
