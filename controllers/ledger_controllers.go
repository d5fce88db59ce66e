package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// LedgerController mengelola buku kas manual (hutang/piutang)
type LedgerController struct {
	DB *gorm.DB
}

func NewLedgerController(db *gorm.DB) *LedgerController {
	return &LedgerController{DB: db}
}

type transactionRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	DueDate      time.Time       `json:"due_date"`
	Counterparty string          `json:"counterparty"`
	Category     string          `json:"category"`
}

func (r transactionRequest) apply(t *models.FinancialTransaction) {
	t.Description = r.Description
	t.Amount = r.Amount
	t.Type = r.Type
	t.Status = r.Status
	t.DueDate = r.DueDate.UTC()
	t.Counterparty = r.Counterparty
	t.Category = r.Category
}

func (lc *LedgerController) findTransaction(c *gin.Context) (*models.FinancialTransaction, bool) {
	id, ok := uintParam(c, "transaction_id")
	if !ok {
		return nil, false
	}
	var txn models.FinancialTransaction
	if err := lc.DB.WithContext(c.Request.Context()).First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("transaction not found"))
		} else {
			respondServiceError(c, err)
		}
		return nil, false
	}
	return &txn, true
}

// GetAllTransactions -> ?type=&status=
func (lc *LedgerController) GetAllTransactions(c *gin.Context) {
	query := lc.DB.WithContext(c.Request.Context()).Order("due_date ASC, id ASC")
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if s := c.Query("status"); s != "" {
		query = query.Where("status = ?", s)
	}

	var txns []models.FinancialTransaction
	if err := query.Find(&txns).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transactions retrieved", txns)
}

func (lc *LedgerController) GetTransactionByID(c *gin.Context) {
	txn, ok := lc.findTransaction(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction detail", txn)
}

func (lc *LedgerController) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var txn models.FinancialTransaction
	req.apply(&txn)
	if err := services.ValidateTransaction(&txn); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := lc.DB.WithContext(c.Request.Context()).Create(&txn).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Transaction created", txn)
}

func (lc *LedgerController) UpdateTransaction(c *gin.Context) {
	txn, ok := lc.findTransaction(c)
	if !ok {
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req.apply(txn)
	if err := services.ValidateTransaction(txn); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := lc.DB.WithContext(c.Request.Context()).Save(txn).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction updated", txn)
}

// MarkPaid -> pending jadi paid, paid_at sekarang
func (lc *LedgerController) MarkPaid(c *gin.Context) {
	txn, ok := lc.findTransaction(c)
	if !ok {
		return
	}
	if txn.Status == models.TransactionPaid {
		utils.RespondError(c, http.StatusConflict, errors.New("transaction already paid"))
		return
	}

	now := time.Now().UTC()
	res := lc.DB.WithContext(c.Request.Context()).
		Model(&models.FinancialTransaction{ID: txn.ID}).
		Where("status = ?", models.TransactionPending).
		Updates(map[string]interface{}{"status": models.TransactionPaid, "paid_at": now})
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("transaction already paid"))
		return
	}

	txn.Status = models.TransactionPaid
	txn.PaidAt = &now
	utils.RespondJSON(c, http.StatusOK, "Transaction paid", txn)
}

func (lc *LedgerController) DeleteTransaction(c *gin.Context) {
	txn, ok := lc.findTransaction(c)
	if !ok {
		return
	}
	if err := lc.DB.WithContext(c.Request.Context()).Delete(txn).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction deleted", nil)
}

func (lc *LedgerController) GetSummary(c *gin.Context) {
	var txns []models.FinancialTransaction
	if err := lc.DB.WithContext(c.Request.Context()).Find(&txns).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ledger summary", services.SummarizeLedger(txns, time.Now().UTC()))
}
