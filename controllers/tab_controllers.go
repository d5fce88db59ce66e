package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// TabController: tagihan meja, edit item dan penutupan tab
type TabController struct {
	Tabs *services.TabService
}

func NewTabController(tabs *services.TabService) *TabController {
	return &TabController{Tabs: tabs}
}

func (tc *TabController) GetTableReceipt(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	receipt, err := tc.Tabs.Receipt(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table receipt", receipt)
}

func (tc *TabController) GetOrderReceipt(c *gin.Context) {
	id, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	receipt, err := tc.Tabs.OrderReceipt(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order receipt", receipt)
}

func (tc *TabController) UpdateItemQuantity(c *gin.Context) {
	id, ok := uintParam(c, "item_id")
	if !ok {
		return
	}
	var body struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := tc.Tabs.UpdateItemQuantity(c.Request.Context(), id, body.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item updated", item)
}

func (tc *TabController) DeleteItem(c *gin.Context) {
	id, ok := uintParam(c, "item_id")
	if !ok {
		return
	}
	result, err := tc.Tabs.DeleteItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", result)
}

func (tc *TabController) CloseTab(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	bill, err := tc.Tabs.CloseTab(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tab closed", bill)
}

func (tc *TabController) CloseOrder(c *gin.Context) {
	id, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	bill, err := tc.Tabs.CloseOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order closed", bill)
}
