package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/documents/opname"
	"gudang/internal/infrastructure/http/v1/dto"
)

// StockOpnameHandler serves stock opname endpoints. Opnames follow a
// draft/completed/cancelled lifecycle instead of approval, so the
// generic approval handler does not apply.
type StockOpnameHandler struct {
	*BaseHandler
	service *opname.Service
}

// NewStockOpnameHandler creates an opname handler.
func NewStockOpnameHandler(base *BaseHandler, service *opname.Service) *StockOpnameHandler {
	return &StockOpnameHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /stock-opnames
func (h *StockOpnameHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := opname.ListFilter{
		ListFilter: domain.ListFilter{
			Search:         c.Query("search"),
			Limit:          h.ParseIntQuery(c, "limit", 50),
			Offset:         h.ParseIntQuery(c, "offset", 0),
			OrderBy:        c.DefaultQuery("orderBy", "-date"),
			IncludeDeleted: c.Query("includeDeleted") == "true",
		},
	}

	if locationID := c.Query("locationId"); locationID != "" {
		parsed, err := id.Parse(locationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid locationId"))
			return
		}
		filter.LocationID = &parsed
	}
	if status := c.Query("status"); status != "" {
		parsed := opname.Status(status)
		if !parsed.Valid() {
			h.Error(c, apperror.NewValidation("invalid status").WithDetail("status", status))
			return
		}
		filter.Status = &parsed
	}

	var err error
	if filter.DateFrom, err = parseTimeQuery(c, "dateFrom"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.DateTo, err = parseTimeQuery(c, "dateTo"); err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromStockOpname(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /stock-opnames/:id
func (h *StockOpnameHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockOpname(doc))
}

// Create handles POST /stock-opnames
func (h *StockOpnameHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStockOpnameRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockOpname(doc))
}

// Update handles PUT /stock-opnames/:id - draft opnames only.
func (h *StockOpnameHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateStockOpnameRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockOpname(doc))
}

// Complete handles POST /stock-opnames/:id/complete - applies counted
// quantities to stock. Irreversible.
func (h *StockOpnameHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.Complete(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockOpname(doc))
}

// Cancel handles POST /stock-opnames/:id/cancel
func (h *StockOpnameHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.Cancel(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockOpname(doc))
}

// Delete handles DELETE /stock-opnames/:id
func (h *StockOpnameHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Restore handles POST /stock-opnames/:id/restore
func (h *StockOpnameHandler) Restore(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Restore(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockOpname(doc))
}
