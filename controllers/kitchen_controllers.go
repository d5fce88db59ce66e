package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type KitchenController struct {
	Kitchen *services.KitchenService
}

func NewKitchenController(kitchen *services.KitchenService) *KitchenController {
	return &KitchenController{Kitchen: kitchen}
}

// GetActiveOrders -> order queued/preparing/ready, paling lama dulu
func (kc *KitchenController) GetActiveOrders(c *gin.Context) {
	orders, err := kc.Kitchen.ActiveOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active kitchen orders", orders)
}

// AdvanceOrder -> maju satu langkah
func (kc *KitchenController) AdvanceOrder(c *gin.Context) {
	id, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	order, err := kc.Kitchen.Advance(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order moved to "+order.Status, order)
}
