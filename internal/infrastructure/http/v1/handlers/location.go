package handlers

import (
	"gudang/internal/domain"
	"gudang/internal/domain/catalogs/location"
	"gudang/internal/infrastructure/http/v1/dto"
)

// LocationHTTPHandler is the HTTP handler for the location catalog.
type LocationHTTPHandler = CatalogHandler[*location.Location, dto.CreateLocationRequest, dto.UpdateLocationRequest]

// NewLocationHTTPHandler creates a location handler.
func NewLocationHTTPHandler(base *BaseHandler, service *domain.CatalogService[*location.Location]) *LocationHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*location.Location, dto.CreateLocationRequest, dto.UpdateLocationRequest]{
		Service:    service,
		EntityName: "location",
		MapCreateDTO: func(req dto.CreateLocationRequest) *location.Location {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateLocationRequest, existing *location.Location) *location.Location {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(item *location.Location) any {
			return dto.FromLocation(item)
		},
	})
}
