package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/httpresp"
	"github.com/barberflow/agenda-api/internal/middleware"
	"github.com/barberflow/agenda-api/internal/models"
)

type ProductHandler struct {
	db *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" binding:"required"`
	StockQuantity int     `json:"stock_quantity" binding:"min=0"`
	MinStock      int     `json:"min_stock" binding:"min=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	MinStock    *int     `json:"min_stock,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// operation: add | subtract | set
type AdjustStockRequest struct {
	Operation string `json:"operation" binding:"required,oneof=add subtract set"`
	Quantity  int    `json:"quantity" binding:"required,min=0"`
}

// --------- Handlers ---------

func (h *ProductHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	q := h.db.Where("barbershop_id = ?", barbershopID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}
	if c.Query("in_stock") == "true" {
		q = q.Where("stock_quantity > 0")
	}

	var products []models.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Erro ao listar produtos.")
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	product := models.Product{
		BarbershopID:  barbershopID,
		Name:          req.Name,
		Description:   req.Description,
		Category:      strings.ToLower(req.Category),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		MinStock:      req.MinStock,
		Active:        true,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Erro ao criar produto.")
		return
	}

	httpresp.Created(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var product models.Product
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = strings.ToLower(*req.Category)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Erro ao atualizar produto.")
		return
	}

	httpresp.OK(c, product)
}

// AdjustStock aplica add/subtract/set de forma atômica; subtract nunca
// deixa o estoque negativo.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var res *gorm.DB

	switch req.Operation {
	case "add":
		res = h.db.Model(&models.Product{}).
			Where("id = ? AND barbershop_id = ?", id, barbershopID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", req.Quantity))
	case "subtract":
		res = h.db.Model(&models.Product{}).
			Where("id = ? AND barbershop_id = ? AND stock_quantity >= ?", id, barbershopID, req.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", req.Quantity))
	case "set":
		res = h.db.Model(&models.Product{}).
			Where("id = ? AND barbershop_id = ?", id, barbershopID).
			UpdateColumn("stock_quantity", req.Quantity)
	}

	if res.Error != nil {
		httperr.Internal(c, "failed_to_adjust_stock", "Erro ao ajustar estoque.")
		return
	}

	if res.RowsAffected == 0 {
		var count int64
		h.db.Model(&models.Product{}).
			Where("id = ? AND barbershop_id = ?", id, barbershopID).
			Count(&count)

		if count == 0 {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Conflict(c, "insufficient_stock", "Estoque insuficiente.")
		return
	}

	var product models.Product
	if err := h.db.First(&product, id).Error; err != nil {
		httperr.Internal(c, "failed_to_get_product", "Erro ao buscar produto.")
		return
	}

	httpresp.OK(c, product)
}
