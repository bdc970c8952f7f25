package uom

import (
	"context"

	"gudang/internal/core/id"
	"gudang/internal/domain"
)

// Repository defines the interface for Uom persistence.
type Repository interface {
	domain.CatalogRepository[*Uom]

	// FindBySymbol retrieves uom by symbol (unique).
	FindBySymbol(ctx context.Context, symbol string) (*Uom, error)

	// GetForUpdate retrieves uom with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Uom, error)
}
