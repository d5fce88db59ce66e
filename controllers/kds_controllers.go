package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin sudah dibatasi middleware CORS dan token
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type KDSController struct {
	Hub      *kds.Hub
	Triggers *realtime.Group
}

func NewKDSController(hub *kds.Hub, triggers *realtime.Group) *KDSController {
	return &KDSController{Hub: hub, Triggers: triggers}
}

// KDSHandler -> endpoint WebSocket
func (kc *KDSController) KDSHandler(c *gin.Context) {
	role := c.GetString("role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if role != models.RoleChef && role != models.RoleStaff && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		c.Abort()
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	kc.Hub.Register(ws, role)
	defer kc.Hub.Unregister(ws)

	// Client boleh mengirim "refresh" saat layar kembali fokus
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			break
		}
		if strings.TrimSpace(string(msg)) == "refresh" {
			kc.Triggers.Fire(realtime.ReasonFocus)
		}
	}
}
