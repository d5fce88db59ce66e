package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type InventoryController struct {
	Inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{Inventory: inventory}
}

// Adjust -> {product_id, change_amount, reason}
func (ic *InventoryController) Adjust(c *gin.Context) {
	var body struct {
		ProductID    string `json:"product_id" binding:"required"`
		ChangeAmount int    `json:"change_amount"`
		Reason       string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := ic.Inventory.Adjust(c.Request.Context(), services.AdjustInput{
		ProductID: body.ProductID,
		Delta:     body.ChangeAmount,
		Reason:    body.Reason,
		UserID:    currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock adjusted", result)
}

// GetLogs -> ?product_id=&limit=
func (ic *InventoryController) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := ic.Inventory.Logs(c.Request.Context(), c.Query("product_id"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory logs", logs)
}
