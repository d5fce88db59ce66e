package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// MenuController melayani menu digital untuk pelanggan (QR di meja).
type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuSection struct {
	Category *models.Category `json:"category"`
	Products []models.Product `json:"products"`
}

// GetMenu -> GET /menu?mesa=<id>. Parameter meja tidak wajib untuk melihat
// menu, tetapi tanpa meja yang valid pelanggan tidak bisa checkout.
func (mc *MenuController) GetMenu(c *gin.Context) {
	var settings models.Settings
	if err := mc.DB.First(&settings, models.SettingsID).Error; err != nil {
		settings = models.DefaultSettings()
	}

	var categories []models.Category
	if err := mc.DB.Order("name").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var products []models.Product
	if err := mc.DB.Where("status = ?", models.ProductActive).Order("name").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sections := make([]menuSection, 0, len(categories)+1)
	index := make(map[uint]int, len(categories))
	for i := range categories {
		index[categories[i].ID] = len(sections)
		sections = append(sections, menuSection{Category: &categories[i], Products: []models.Product{}})
	}
	var uncategorized []models.Product
	for _, p := range products {
		if p.CategoryID != nil {
			if i, ok := index[*p.CategoryID]; ok {
				sections[i].Products = append(sections[i].Products, p)
				continue
			}
		}
		uncategorized = append(uncategorized, p)
	}
	if len(uncategorized) > 0 {
		sections = append(sections, menuSection{Products: uncategorized})
	}

	var table *models.Table
	canCheckout := false
	warning := ""

	raw := strings.TrimSpace(c.Query("mesa"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("table"))
	}
	switch {
	case !settings.QROrderingEnabled:
		warning = "Pedidos pelo QR code estão desativados. Chame um atendente."
	case raw == "":
		warning = "Mesa não identificada. Escaneie o QR code da mesa para fazer o pedido."
	default:
		id, err := strconv.ParseUint(raw, 10, 64)
		var found models.Table
		if err != nil || id == 0 || mc.DB.First(&found, id).Error != nil {
			warning = "Mesa " + raw + " não encontrada. Chame um atendente."
		} else {
			table = &found
			canCheckout = true
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", gin.H{
		"restaurant_name": settings.RestaurantName,
		"currency":        settings.Currency,
		"sections":        sections,
		"table":           table,
		"can_checkout":    canCheckout,
		"warning":         warning,
	})
}
