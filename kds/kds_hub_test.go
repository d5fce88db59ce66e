package kds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/realtime"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, "chef")
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastKitchenUpdate(map[string]interface{}{"new_ids": []uint{4}})

	msg := readMessage(t, conn)
	assert.Equal(t, EventKitchenUpdate, msg.Event)
	assert.NotNil(t, msg.Data)
}

func TestHubTypedBroadcasts(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	table := uint(3)
	hub.BroadcastStaffNotification(Notification{Kind: "new_order", Message: "New QR order", OrderID: 7, TableID: &table})
	hub.BroadcastOrderUpdate(map[string]interface{}{"order_id": 7, "status": "preparing"})
	hub.BroadcastTableUpdate(map[string]interface{}{"table_id": 3, "status": "occupied"})

	msg := readMessage(t, conn)
	assert.Equal(t, EventStaffNotif, msg.Event)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "new_order", data["kind"])
	assert.EqualValues(t, 7, data["order_id"])
	assert.EqualValues(t, 3, data["table_id"])

	assert.Equal(t, EventOrderUpdate, readMessage(t, conn).Event)
	assert.Equal(t, EventTableUpdate, readMessage(t, conn).Event)
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubFollowRelaysChanges(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	feed := realtime.NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Follow(ctx, feed)
	require.Eventually(t, func() bool { return feed.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, feed.Publish(ctx, realtime.Change{Table: "tables", RecordID: "2", Action: "UPDATE"}))

	msg := readMessage(t, conn)
	assert.Equal(t, EventDBChange, msg.Event)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tables", data["table"])
	assert.Equal(t, "2", data["record_id"])
}
