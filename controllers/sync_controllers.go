package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// SyncController memicu refresh manual, dipanggil frontend saat tab
// kembali fokus.
type SyncController struct {
	Triggers *realtime.Group
}

func NewSyncController(triggers *realtime.Group) *SyncController {
	return &SyncController{Triggers: triggers}
}

func (sc *SyncController) Refresh(c *gin.Context) {
	sc.Triggers.Fire(realtime.ReasonFocus)
	utils.RespondJSON(c, http.StatusAccepted, "Refresh scheduled", nil)
}
