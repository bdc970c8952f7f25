package location

import (
	"context"

	"gudang/internal/core/id"
	"gudang/internal/domain"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	domain.CatalogRepository[*Location]

	// GetForUpdate retrieves location with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Location, error)
}
