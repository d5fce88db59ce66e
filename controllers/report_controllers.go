package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type ReportController struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewReportController(db *gorm.DB, reports *services.ReportService) *ReportController {
	return &ReportController{DB: db, Reports: reports}
}

// GetRevenue -> ?range=daily|weekly|monthly
func (rc *ReportController) GetRevenue(c *gin.Context) {
	r, err := services.ParseRange(c.Query("range"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	report, err := rc.Reports.Revenue(c.Request.Context(), r)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue report", report)
}

type dashboardStats struct {
	TodayOrders   int              `json:"today_orders"`
	TodayRevenue  decimal.Decimal  `json:"today_revenue"`
	AveragePrepMs int64            `json:"avg_prep_ms"`
	OrderStats    map[string]int64 `json:"order_stats"`
	TableStats    map[string]int64 `json:"table_stats"`
	RecentOrders  []models.Order   `json:"recent_orders"`
}

type statusCount struct {
	Status string
	Total  int64
}

func countByStatus(db *gorm.DB, model interface{}, statuses ...string) (map[string]int64, error) {
	var rows []statusCount
	if err := db.Model(model).Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(statuses))
	for _, s := range statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// GetDashboardStats mengambil statistik singkat untuk dashboard admin
func (rc *ReportController) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	db := rc.DB.WithContext(ctx)

	today, err := rc.Reports.Revenue(ctx, services.RangeDaily)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats := dashboardStats{
		TodayOrders:  today.OrderCount,
		TodayRevenue: today.TotalRevenue,
	}

	stats.OrderStats, err = countByStatus(db, &models.Order{},
		models.OrderQueued, models.OrderPreparing, models.OrderReady,
		models.OrderDelivered, models.OrderFinalized, models.OrderCancelled)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	stats.TableStats, err = countByStatus(db, &models.Table{},
		models.TableAvailable, models.TableOccupied, models.TableDirty)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Rata-rata waktu masak dihitung di Go supaya tidak tergantung fungsi tanggal dialect
	var prepared []models.Order
	if err := db.Select("id, started_at, ready_at").
		Where("started_at IS NOT NULL AND ready_at IS NOT NULL AND created_at >= ?", today.Start).
		Find(&prepared).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	var totalPrep time.Duration
	for _, o := range prepared {
		totalPrep += o.ReadyAt.Sub(*o.StartedAt)
	}
	if len(prepared) > 0 {
		stats.AveragePrepMs = (totalPrep / time.Duration(len(prepared))).Milliseconds()
	}

	if err := db.Preload("Items").Order("created_at DESC").Limit(10).Find(&stats.RecentOrders).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
