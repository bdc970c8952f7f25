package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/infrastructure/http/v1/dto"
)

// ApprovalDocumentService is the workflow surface shared by procurement
// and disposal services. F is the document-specific list filter.
type ApprovalDocumentService[T any, F any] interface {
	Create(ctx context.Context, doc T) error
	GetByID(ctx context.Context, docID id.ID) (T, error)
	List(ctx context.Context, filter F) (domain.ListResult[T], error)
	Update(ctx context.Context, doc T) error
	Approve(ctx context.Context, docID id.ID) (T, error)
	Reject(ctx context.Context, docID id.ID, reason string) (T, error)
	Delete(ctx context.Context, docID id.ID) error
	Restore(ctx context.Context, docID id.ID) error
}

// ApprovalDocumentHandler provides generic HTTP handlers for
// approval-gated documents.
type ApprovalDocumentHandler[T any, F any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    ApprovalDocumentService[T, F]
	entityName string

	// Mapper functions
	mapCreateDTO func(dto CreateDTO) T
	mapUpdateDTO func(dto UpdateDTO, existing T) T
	mapToDTO     func(doc T) any
	parseFilter  func(c *gin.Context, base *BaseHandler) (F, error)
}

// ApprovalDocumentHandlerConfig configures the document handler.
type ApprovalDocumentHandlerConfig[T any, F any, CreateDTO any, UpdateDTO any] struct {
	Service      ApprovalDocumentService[T, F]
	EntityName   string
	MapCreateDTO func(dto CreateDTO) T
	MapUpdateDTO func(dto UpdateDTO, existing T) T
	MapToDTO     func(doc T) any
	ParseFilter  func(c *gin.Context, base *BaseHandler) (F, error)
}

// NewApprovalDocumentHandler creates a new document handler.
func NewApprovalDocumentHandler[T any, F any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg ApprovalDocumentHandlerConfig[T, F, CreateDTO, UpdateDTO],
) *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO] {
	return &ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
		parseFilter:  cfg.ParseFilter,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.parseFilter(c, h.BaseHandler)
	if err != nil {
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
		items[i] = h.mapToDTO(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /{entity}/:id
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Create handles POST /{entity}
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.mapCreateDTO(req)

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.mapToDTO(doc))
}

// Update handles PUT /{entity}/:id
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc = h.mapUpdateDTO(req, doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Delete handles DELETE /{entity}/:id - marks the document deleted and
// reverses its stock effect when it was approved.
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
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

// Restore handles POST /{entity}/:id/restore
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Restore(c *gin.Context) {
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

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Approve handles POST /{entity}/:id/approve
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Approve(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.Approve(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Reject handles POST /{entity}/:id/reject
func (h *ApprovalDocumentHandler[T, F, CreateDTO, UpdateDTO]) Reject(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.RejectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Reject(ctx, docID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}
