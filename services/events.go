package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
)

// Notifier dipenuhi oleh kds.Hub
type Notifier interface {
	Broadcast(event string, data interface{})
	BroadcastKitchenUpdate(data interface{})
	BroadcastOrderUpdate(data interface{})
	BroadcastTableUpdate(data interface{})
	BroadcastStaffNotification(n kds.Notification)
}

type OrderUpdate struct {
	OrderID     uint            `json:"order_id"`
	TableID     *uint           `json:"table_id,omitempty"`
	Status      string          `json:"status"`
	Source      string          `json:"source"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type TableUpdate struct {
	TableID     uint            `json:"table_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func orderUpdateOf(order *models.Order) OrderUpdate {
	return OrderUpdate{
		OrderID:     order.ID,
		TableID:     order.TableID,
		Status:      order.Status,
		Source:      order.Source,
		TotalAmount: order.TotalAmount,
	}
}

func newOrderNotification(order *models.Order) kds.Notification {
	msg := fmt.Sprintf("New order: %s", order.Label())
	if order.Source == models.SourceQR {
		msg = fmt.Sprintf("New QR order: %s", order.Label())
	}
	return kds.Notification{Kind: "new_order", Message: msg, OrderID: order.ID, TableID: order.TableID}
}
