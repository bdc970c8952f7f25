package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/documents"
	"gudang/internal/domain/documents/procurement"
	"gudang/internal/infrastructure/http/v1/dto"
)

// ProcurementHTTPHandler is the HTTP handler for procurement documents.
type ProcurementHTTPHandler = ApprovalDocumentHandler[*procurement.Procurement, procurement.ListFilter, dto.CreateProcurementRequest, dto.UpdateProcurementRequest]

// NewProcurementHTTPHandler creates a procurement handler.
func NewProcurementHTTPHandler(base *BaseHandler, service *procurement.Service) *ProcurementHTTPHandler {
	return NewApprovalDocumentHandler(base, ApprovalDocumentHandlerConfig[*procurement.Procurement, procurement.ListFilter, dto.CreateProcurementRequest, dto.UpdateProcurementRequest]{
		Service:    service,
		EntityName: procurement.EntityType,
		MapCreateDTO: func(req dto.CreateProcurementRequest) *procurement.Procurement {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProcurementRequest, existing *procurement.Procurement) *procurement.Procurement {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *procurement.Procurement) any {
			return dto.FromProcurement(doc)
		},
		ParseFilter: parseProcurementFilter,
	})
}

func parseProcurementFilter(c *gin.Context, base *BaseHandler) (procurement.ListFilter, error) {
	filter := procurement.ListFilter{
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

// parseTimeQuery parses an optional RFC 3339 or date-only query parameter.
func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		t, err = time.Parse("2006-01-02", val)
		if err != nil {
			return nil, apperror.NewValidation("invalid " + key + " (RFC 3339 or YYYY-MM-DD expected)")
		}
	}
	return &t, nil
}
