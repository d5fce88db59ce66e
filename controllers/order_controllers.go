package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
	Tabs   *services.TabService
}

func NewOrderController(orders *services.OrderService, tabs *services.TabService) *OrderController {
	return &OrderController{Orders: orders, Tabs: tabs}
}

type createOrderRequest struct {
	TableID        interface{} `json:"table_id"`
	Source         string      `json:"source"`
	IdempotencyKey string      `json:"idempotency_key"`
	Items          []struct {
		ProductID interface{} `json:"product_id"`
		Quantity  interface{} `json:"quantity"`
		Notes     string      `json:"notes"`
	} `json:"items"`
}

func orderFailure(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// CreateOrder -> POST /api/orders. Dipakai PDV dan QR, responnya
// {success, orderId} atau {success:false, error}.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		orderFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	table, err := services.ParseTableRef(req.TableID)
	if err != nil {
		orderFailure(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		orderFailure(c, http.StatusBadRequest, "items must not be empty")
		return
	}

	in := services.CreateOrderInput{
		Table:          table,
		Source:         req.Source,
		IdempotencyKey: req.IdempotencyKey,
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		in.IdempotencyKey = key
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.OrderItemInput{
			ProductID: services.ParseProductID(it.ProductID),
			Quantity:  services.ParseQuantity(it.Quantity),
			Notes:     it.Notes,
		})
	}

	result, err := oc.Orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			orderFailure(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrForbidden):
			orderFailure(c, http.StatusForbidden, err.Error())
		default:
			utils.ErrorLogger.Errorf("Error creating order for table %s: %v", table, err)
			orderFailure(c, http.StatusInternalServerError, "could not create order")
		}
		return
	}

	resp := gin.H{
		"success": true,
		"orderId": result.OrderID,
		"total":   result.Total,
	}
	if result.Duplicate {
		resp["duplicate"] = true
	}
	c.JSON(http.StatusOK, resp)
}

// GetAllOrders -> filter status dan table_id
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var tableID uint
	if raw := c.Query("table_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table_id"))
			return
		}
		tableID = uint(id)
	}

	orders, err := oc.Orders.ListOrders(c.Request.Context(), c.Query("status"), tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CancelOrder -> batalkan order yang belum diantar, stok dikembalikan
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Tabs.CancelOrder(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
