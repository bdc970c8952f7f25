package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain"
	"gudang/internal/domain/catalogs/uomconversion"
	"gudang/internal/infrastructure/http/v1/dto"
)

// UomConversionHandler serves conversion rule CRUD and rate resolution.
// Rules are not a regular catalog (no code/name), so the generic
// catalog handler does not apply.
type UomConversionHandler struct {
	*BaseHandler
	service *uomconversion.Service
}

// NewUomConversionHandler creates a conversion rule handler.
func NewUomConversionHandler(base *BaseHandler, service *uomconversion.Service) *UomConversionHandler {
	return &UomConversionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /uom-conversions
func (h *UomConversionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromUomConversion(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /uom-conversions/:id
func (h *UomConversionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	ruleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rule, err := h.service.GetByID(ctx, ruleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUomConversion(rule))
}

// Create handles POST /uom-conversions
func (h *UomConversionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateUomConversionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule := req.ToEntity()

	if err := h.service.Create(ctx, rule); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromUomConversion(rule))
}

// Update handles PUT /uom-conversions/:id
func (h *UomConversionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	ruleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateUomConversionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule, err := h.service.GetByID(ctx, ruleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(rule)

	if err := h.service.Update(ctx, rule); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUomConversion(rule))
}

// Delete handles DELETE /uom-conversions/:id
func (h *UomConversionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	ruleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, ruleID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Convert handles GET /uom-conversions/convert - resolves the rate
// between two units and converts a quantity.
func (h *UomConversionHandler) Convert(c *gin.Context) {
	ctx := c.Request.Context()

	fromID, err := id.Parse(c.Query("fromUomId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromUomId"))
		return
	}
	toID, err := id.Parse(c.Query("toUomId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toUomId"))
		return
	}

	qty := types.NewQuantityFromFloat64(1)
	if qtyStr := c.Query("quantity"); qtyStr != "" {
		if err := qty.UnmarshalJSON([]byte(qtyStr)); err != nil {
			h.Error(c, apperror.NewValidation("invalid quantity"))
			return
		}
	}

	rate, err := h.service.Resolve(ctx, fromID, toID)
	if err != nil {
		h.Error(c, err)
		return
	}

	converted, err := h.service.ConvertQuantity(ctx, qty, fromID, toID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConvertQuantityResponse{
		FromUomID: fromID.String(),
		ToUomID:   toID.String(),
		Rate:      rate,
		Quantity:  qty,
		Converted: converted,
	})
}
