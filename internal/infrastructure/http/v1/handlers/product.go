package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/domain/catalogs/product"
	"gudang/internal/infrastructure/cache"
	"gudang/internal/infrastructure/http/v1/dto"
)

// ProductHTTPHandler serves product catalog endpoints. Barcode lookups
// go through the two-level product cache; writes invalidate it.
type ProductHTTPHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
	cache   *cache.ProductCache
}

// NewProductHTTPHandler creates a product handler.
func NewProductHTTPHandler(base *BaseHandler, service *product.Service, productCache *cache.ProductCache) *ProductHTTPHandler {
	generic := NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(item *product.Product) any {
			return dto.FromProduct(item)
		},
	})

	h := &ProductHTTPHandler{
		CatalogHandler: generic,
		service:        service,
		cache:          productCache,
	}

	// Keep the barcode cache coherent with catalog writes.
	if productCache != nil {
		invalidate := func(ctx context.Context, item *product.Product) error {
			if item.Barcode != nil && *item.Barcode != "" {
				productCache.Invalidate(ctx, *item.Barcode)
			}
			return nil
		}
		service.Hooks().OnAfterUpdate(invalidate)
		service.Hooks().OnAfterDelete(invalidate)
	}

	return h
}

// GetByBarcode handles GET /products/barcode/:barcode - cached lookup
// for point-of-sale scanners.
func (h *ProductHTTPHandler) GetByBarcode(c *gin.Context) {
	ctx := c.Request.Context()

	barcode := c.Param("barcode")
	if barcode == "" {
		h.Error(c, apperror.NewValidation("barcode is required"))
		return
	}

	if h.cache != nil {
		if cached := h.cache.GetByBarcode(ctx, barcode); cached != nil {
			c.JSON(http.StatusOK, dto.FromProduct(cached))
			return
		}
	}

	item, err := h.service.FindByBarcode(ctx, barcode)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ctx, barcode, item)
	}

	c.JSON(http.StatusOK, dto.FromProduct(item))
}

// GetBySKU handles GET /products/sku/:sku
func (h *ProductHTTPHandler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	sku := c.Param("sku")
	if sku == "" {
		h.Error(c, apperror.NewValidation("sku is required"))
		return
	}

	item, err := h.service.FindBySKU(ctx, sku)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(item))
}

// CacheStats handles GET /products/cache-stats
func (h *ProductHTTPHandler) CacheStats(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, cache.Stats{})
		return
	}
	c.JSON(http.StatusOK, h.cache.GetStats())
}
