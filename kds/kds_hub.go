package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Event types
const (
	EventKitchenUpdate = "kitchen_update"
	EventTableUpdate   = "table_update"
	EventOrderUpdate   = "order_update"
	EventStaffNotif    = "staff_notification"
	EventDBChange      = "db_change"
	EventReconciled    = "tables_reconciled"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Notification dikirim ke staff, misalnya saat order QR masuk.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	OrderID uint   `json:"order_id,omitempty"`
	TableID *uint  `json:"table_id,omitempty"`
}

// Hub menampung semua client websocket (chef, staff, admin) terminal.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register menambahkan connection dengan role
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister melepaskan connection dan menutupnya
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast mengirim event ke semua client. Client yang gagal ditulis
// dilepas dari hub.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to %s client: %v", event, role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients", event, len(h.clients))
}

// BroadcastKitchenUpdate -> update untuk layar dapur
func (h *Hub) BroadcastKitchenUpdate(data interface{}) {
	h.Broadcast(EventKitchenUpdate, data)
}

// BroadcastOrderUpdate -> perubahan status satu order
func (h *Hub) BroadcastOrderUpdate(data interface{}) {
	h.Broadcast(EventOrderUpdate, data)
}

// BroadcastTableUpdate -> status/total meja berubah
func (h *Hub) BroadcastTableUpdate(data interface{}) {
	h.Broadcast(EventTableUpdate, data)
}

// BroadcastStaffNotification -> notifikasi untuk staff
func (h *Hub) BroadcastStaffNotification(n Notification) {
	h.Broadcast(EventStaffNotif, n)
}

// Follow meneruskan setiap perubahan dari feed ke client sebagai event
// db_change, sampai ctx selesai.
func (h *Hub) Follow(ctx context.Context, feed realtime.Feed) error {
	changes, err := feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			h.Broadcast(EventDBChange, change)
		case <-ctx.Done():
			return nil
		}
	}
}
