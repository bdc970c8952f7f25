package handlers

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/documents"
	"gudang/internal/domain/documents/disposal"
	"gudang/internal/infrastructure/http/v1/dto"
)

// DisposalHTTPHandler is the HTTP handler for disposal documents.
type DisposalHTTPHandler = ApprovalDocumentHandler[*disposal.Disposal, disposal.ListFilter, dto.CreateDisposalRequest, dto.UpdateDisposalRequest]

// NewDisposalHTTPHandler creates a disposal handler.
func NewDisposalHTTPHandler(base *BaseHandler, service *disposal.Service) *DisposalHTTPHandler {
	return NewApprovalDocumentHandler(base, ApprovalDocumentHandlerConfig[*disposal.Disposal, disposal.ListFilter, dto.CreateDisposalRequest, dto.UpdateDisposalRequest]{
		Service:    service,
		EntityName: disposal.EntityType,
		MapCreateDTO: func(req dto.CreateDisposalRequest) *disposal.Disposal {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateDisposalRequest, existing *disposal.Disposal) *disposal.Disposal {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *disposal.Disposal) any {
			return dto.FromDisposal(doc)
		},
		ParseFilter: parseDisposalFilter,
	})
}

func parseDisposalFilter(c *gin.Context, base *BaseHandler) (disposal.ListFilter, error) {
	filter := disposal.ListFilter{
		ListFilter: domain.ListFilter{
			Search:         c.Query("search"),
			Limit:          base.ParseIntQuery(c, "limit", 50),
			Offset:         base.ParseIntQuery(c, "offset", 0),
			OrderBy:        c.DefaultQuery("orderBy", "-date"),
			IncludeDeleted: c.Query("includeDeleted") == "true",
		},
	}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			return filter, apperror.NewValidation("invalid productId")
		}
		filter.ProductID = &parsed
	}
	if locationID := c.Query("locationId"); locationID != "" {
		parsed, err := id.Parse(locationID)
		if err != nil {
			return filter, apperror.NewValidation("invalid locationId")
		}
		filter.LocationID = &parsed
	}
	if status := c.Query("status"); status != "" {
		parsed := documents.ApprovalStatus(status)
		if !parsed.Valid() {
			return filter, apperror.NewValidation("invalid status").WithDetail("status", status)
		}
		filter.Status = &parsed
	}

	var err error
	if filter.DateFrom, err = parseTimeQuery(c, "dateFrom"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseTimeQuery(c, "dateTo"); err != nil {
		return filter, err
	}

	return filter, nil
}
