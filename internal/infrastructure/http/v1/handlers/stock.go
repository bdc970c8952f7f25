package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/domain/registers/stock"
	"gudang/internal/infrastructure/http/v1/dto"
)

// StockHandler serves read-only stock register endpoints. Stock is
// mutated only through document workflows, never directly.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetOnHand handles GET /stock/on-hand - current quantity for one pair.
func (h *StockHandler) GetOnHand(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Query("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId"))
		return
	}
	locationID, err := id.Parse(c.Query("locationId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid locationId"))
		return
	}

	qty, err := h.service.Get(ctx, productID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productId":  productID.String(),
		"locationId": locationID.String(),
		"quantity":   qty,
	})
}

// ListLevels handles GET /stock/levels
func (h *StockHandler) ListLevels(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock.LevelFilter{
		OnlyBelowMin: c.Query("belowMin") == "true",
		Limit:        h.ParseIntQuery(c, "limit", 100),
		Offset:       h.ParseIntQuery(c, "offset", 0),
	}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId"))
			return
		}
		filter.ProductID = &parsed
	}
	if locationID := c.Query("locationId"); locationID != "" {
		parsed, err := id.Parse(locationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid locationId"))
			return
		}
		filter.LocationID = &parsed
	}

	levels, err := h.service.Levels(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockLevelResponse, len(levels))
	for i, level := range levels {
		items[i] = dto.FromStockLevel(level)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListMovements handles GET /stock/movements - the append-only trail.
func (h *StockHandler) ListMovements(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId"))
			return
		}
		filter.ProductID = &parsed
	}
	if locationID := c.Query("locationId"); locationID != "" {
		parsed, err := id.Parse(locationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid locationId"))
			return
		}
		filter.LocationID = &parsed
	}
	if referenceID := c.Query("referenceId"); referenceID != "" {
		parsed, err := id.Parse(referenceID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid referenceId"))
			return
		}
		filter.ReferenceID = &parsed
	}
	if movementType := c.Query("movementType"); movementType != "" {
		parsed := entity.MovementType(movementType)
		switch parsed {
		case entity.MovementTypeProcurement, entity.MovementTypeDisposal, entity.MovementTypeAdjustment:
		default:
			h.Error(c, apperror.NewValidation("invalid movementType").WithDetail("movementType", movementType))
			return
		}
		filter.MovementType = &parsed
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

	movements, err := h.service.History(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTurnover handles GET /stock/turnover - aggregated incoming and
// outgoing quantities per (product, location) pair.
func (h *StockHandler) GetTurnover(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock.TurnoverFilter{}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId"))
			return
		}
		filter.ProductID = &parsed
	}
	if locationID := c.Query("locationId"); locationID != "" {
		parsed, err := id.Parse(locationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid locationId"))
			return
		}
		filter.LocationID = &parsed
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

	turnovers, err := h.service.Turnover(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.TurnoverResponse, len(turnovers))
	for i, t := range turnovers {
		items[i] = dto.FromTurnover(t)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
