package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/products"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

type ProductResp struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Reward      float64   `json:"reward"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"` // nolint: tagliatelle
	Stock       int       `json:"stock"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"` // nolint: tagliatelle
}

func newProductResp(p models.Product) ProductResp {
	return ProductResp{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       encode.DecimalToFloat(p.Price),
		Reward:      encode.DecimalToFloat(p.Reward),
		Rating:      encode.DecimalToFloat(p.Rating),
		ReviewCount: p.ReviewCount,
		Stock:       p.Stock,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := products.Filter{
		Term:          c.Query("term"),
		Category:      c.Query("category"),
		OnlyAvailable: c.Query("available") == "true",
	}
	items, err := h.app.CatalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	jsonItems := make([]ProductResp, 0, len(items))
	for _, p := range items {
		jsonItems = append(jsonItems, newProductResp(p))
	}
	c.JSON(http.StatusOK, jsonItems)
}

func (h *Handler) ShowProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.app.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Int("productID", id).Msg("Unable to show product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newProductResp(p)})
}

func (h *Handler) ListProductCategories(c *gin.Context) {
	categories, err := h.app.CatalogService.GetCategories(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to list product categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type ProductReq struct {
	Name        string  `json:"name" binding:"required,notblank"`
	Category    string  `json:"category" binding:"required,notblank"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Reward      float64 `json:"reward" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

func (h *Handler) AddProduct(c *gin.Context) {
	var json ProductReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("Unable to validate new product")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	p, err := h.app.CatalogService.AddProduct(c.Request.Context(), models.NewProduct(
		json.Name, json.Category, json.Description,
		decimal.NewFromFloat(json.Price), decimal.NewFromFloat(json.Reward),
		json.Stock,
	))
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to add product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newProductResp(p)})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var json ProductReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("Unable to validate product update")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	p, err := h.app.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	p.Name = json.Name
	p.Category = json.Category
	p.Description = json.Description
	p.Price = decimal.NewFromFloat(json.Price)
	p.Reward = decimal.NewFromFloat(json.Reward)
	p.Stock = json.Stock
	if err = h.app.CatalogService.UpdateProduct(c.Request.Context(), p); err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Int("productID", id).Msg("Unable to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newProductResp(p)})
}

func (h *Handler) ToggleProductAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.app.CatalogService.ToggleProductAvailability(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newProductResp(p)})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := h.app.CatalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
