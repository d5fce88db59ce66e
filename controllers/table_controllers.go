package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB         *gorm.DB
	Reconciler *services.Reconciler
	Tabs       *services.TabService
}

func NewTableController(db *gorm.DB, reconciler *services.Reconciler, tabs *services.TabService) *TableController {
	return &TableController{DB: db, Reconciler: reconciler, Tabs: tabs}
}

func (tc *TableController) db(c *gin.Context) *gorm.DB {
	return tc.DB.WithContext(c.Request.Context())
}

var validTableStatuses = map[string]bool{
	models.TableAvailable: true,
	models.TableOccupied:  true,
	models.TableDirty:     true,
}

// CreateTable -> menambahkan meja baru. ID boleh dikirim supaya nomor
// meja fisik sama dengan id.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		ID     uint   `json:"id"`
		Name   string `json:"name" binding:"required"`
		Status string `json:"status"` // optional, default "available"
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		ID:          req.ID,
		Name:        strings.TrimSpace(req.Name),
		Status:      models.TableAvailable,
		TotalAmount: decimal.Zero,
	}
	if req.Status != "" {
		if !validTableStatuses[req.Status] {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table status"))
			return
		}
		table.Status = req.Status
	}

	if err := tc.db(c).Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("could not create table, id may already exist"))
		return
	}

	utils.InfoLogger.Printf("New table created: %s (status=%s)", table.Name, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> filter search (nama/nomor), status, dan reconcile=true
// untuk menjalankan rekonsiliasi sebelum membaca.
func (tc *TableController) GetAllTables(c *gin.Context) {
	if c.Query("reconcile") == "true" {
		if _, err := tc.Reconciler.ReconcileAll(c.Request.Context()); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	query := tc.db(c).Order("id")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR CAST(id AS CHAR(10)) = ?", like, search)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	var table models.Table
	if err := tc.db(c).First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> koreksi manual status meja
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validTableStatuses[body.Status] {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table status"))
		return
	}

	var table models.Table
	if err := tc.db(c).First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	updates := map[string]interface{}{"status": body.Status}
	if name := strings.TrimSpace(body.Name); name != "" {
		updates["name"] = name
	}
	if err := tc.db(c).Model(&table).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> meja dengan order terbuka tidak bisa dihapus
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}

	var open int64
	if err := tc.db(c).Model(&models.Order{}).
		Where("table_id = ? AND status NOT IN ?", id, models.ClosedOrderStatuses).
		Count(&open).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if open > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("table has open orders"))
		return
	}

	res := tc.db(c).Delete(&models.Table{ID: id})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}

// MarkTableClean -> dirty menjadi available
func (tc *TableController) MarkTableClean(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Tabs.MarkTableClean(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table marked as clean", table)
}

// Reconcile -> jalankan rekonsiliasi sekarang
func (tc *TableController) Reconcile(c *gin.Context) {
	report, err := tc.Reconciler.ReconcileAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables reconciled", report)
}
