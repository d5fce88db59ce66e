package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

func (sc *SettingsController) load(c *gin.Context) (models.Settings, error) {
	var settings models.Settings
	err := sc.DB.WithContext(c.Request.Context()).First(&settings, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	return settings, err
}

// GetSettings publik, dipakai menu QR dan PDV
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.load(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

// UpdateSettings: field yang tidak dikirim tetap
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var body struct {
		RestaurantName        *string `json:"restaurant_name"`
		Currency              *string `json:"currency"`
		QROrderingEnabled     *bool   `json:"qr_ordering_enabled"`
		KitchenDisplayEnabled *bool   `json:"kitchen_display_enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	settings, err := sc.load(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if body.RestaurantName != nil {
		name := strings.TrimSpace(*body.RestaurantName)
		if name == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("restaurant_name must not be empty"))
			return
		}
		settings.RestaurantName = name
	}
	if body.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*body.Currency))
		if len(cur) != 3 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("currency must be a 3-letter code"))
			return
		}
		settings.Currency = cur
	}
	if body.QROrderingEnabled != nil {
		settings.QROrderingEnabled = *body.QROrderingEnabled
	}
	if body.KitchenDisplayEnabled != nil {
		settings.KitchenDisplayEnabled = *body.KitchenDisplayEnabled
	}

	settings.ID = models.SettingsID
	if err := sc.DB.WithContext(c.Request.Context()).Save(&settings).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}
