package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain/audit"
	"gudang/internal/infrastructure/http/v1/dto"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	*BaseHandler
	service *audit.Service
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(base *BaseHandler, service *audit.Service) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		service:     service,
	}
}

// History handles GET /audit/:entityType/:entityId - change history for
// one entity, newest first.
func (h *AuditHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	entityType := c.Param("entityType")
	if entityType == "" {
		h.Error(c, apperror.NewValidation("entityType is required"))
		return
	}

	entityID, err := id.Parse(c.Param("entityId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid entityId format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	entries, err := h.service.History(ctx, entityType, entityID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.FromAuditEntry(e)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
