// Package location provides the Location catalog (stores and warehouses).
package location

import (
	"context"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
)

// LocationType distinguishes retail stores from storage warehouses.
type LocationType string

const (
	TypeStore     LocationType = "store"
	TypeWarehouse LocationType = "warehouse"
)

// Location represents a place that holds stock.
type Location struct {
	entity.Catalog

	// Type: store or warehouse
	Type LocationType `db:"type" json:"type"`

	// Address is a free-form postal address
	Address string `db:"address" json:"address,omitempty"`

	// IsActive controls whether new documents may target this location
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewLocation creates a new Location with required fields.
func NewLocation(code, name string, locType LocationType) *Location {
	return &Location{
		Catalog:  entity.NewCatalog(code, name),
		Type:     locType,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch l.Type {
	case TypeStore, TypeWarehouse:
	default:
		return apperror.NewValidation("invalid location type").
			WithDetail("field", "type").
			WithDetail("value", string(l.Type))
	}

	return nil
}
