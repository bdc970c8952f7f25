package handlers

import (
	"gudang/internal/domain"
	"gudang/internal/domain/catalogs/uom"
	"gudang/internal/infrastructure/http/v1/dto"
)

// UomHTTPHandler is the HTTP handler for the unit-of-measure catalog.
type UomHTTPHandler = CatalogHandler[*uom.Uom, dto.CreateUomRequest, dto.UpdateUomRequest]

// NewUomHTTPHandler creates a UOM handler.
func NewUomHTTPHandler(base *BaseHandler, service *domain.CatalogService[*uom.Uom]) *UomHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*uom.Uom, dto.CreateUomRequest, dto.UpdateUomRequest]{
		Service:    service,
		EntityName: "uom",
		MapCreateDTO: func(req dto.CreateUomRequest) *uom.Uom {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateUomRequest, existing *uom.Uom) *uom.Uom {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(item *uom.Uom) any {
			return dto.FromUom(item)
		},
	})
}
