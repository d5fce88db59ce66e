package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

type productRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	CategoryID    *uint            `json:"category_id"`
	Status        *string          `json:"status"`
	ImageURL      *string          `json:"image_url"`
}

func validProductStatus(status string) bool {
	return status == models.ProductActive || status == models.ProductPaused
}

// apply menyalin field yang dikirim ke product
func (r productRequest) apply(p *models.Product) error {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		if r.Price.IsNegative() {
			return errors.New("price must not be negative")
		}
		p.Price = *r.Price
	}
	if r.StockQuantity != nil {
		p.StockQuantity = *r.StockQuantity
	}
	if r.CategoryID != nil {
		if *r.CategoryID == 0 {
			p.CategoryID = nil
		} else {
			p.CategoryID = r.CategoryID
		}
	}
	if r.Status != nil {
		if !validProductStatus(*r.Status) {
			return errors.New("status must be Active or Paused")
		}
		p.Status = *r.Status
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// GetAllProducts -> filter opsional category & status
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	query := pc.DB.Preload("Category").Order("name")
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	var product models.Product
	if err := pc.DB.Preload("Category").First(&product, "id = ?", c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price is required"))
		return
	}

	product := models.Product{Status: models.ProductActive}
	if err := req.apply(&product); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Product created: %s (%s)", product.Name, product.ID)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, "id = ?", c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	if err := req.apply(&product); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// Category lama ikut tersimpan oleh Save jika tidak dikosongkan
	product.Category = nil

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// SetAvailability -> Active / Paused tanpa menyentuh field lain
func (pc *ProductController) SetAvailability(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validProductStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status must be Active or Paused"))
		return
	}

	id := c.Param("product_id")
	res := pc.DB.Model(&models.Product{ID: id}).Update("status", body.Status)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	utils.InfoLogger.Printf("Product %s is now %s", id, body.Status)
	utils.RespondJSON(c, http.StatusOK, "Product availability updated", gin.H{"id": id, "status": body.Status})
}

// DeleteProduct -> produk yang sudah pernah dipesan tidak bisa dihapus,
// gunakan status Paused.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("product_id")

	var used int64
	if err := pc.DB.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&used).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if used > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("product has order history, pause it instead"))
		return
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.InventoryLog{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"id": id})
}
