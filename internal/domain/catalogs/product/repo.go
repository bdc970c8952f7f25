package product

import (
	"context"

	"gudang/internal/core/id"
	"gudang/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindBySKU retrieves product by SKU (unique).
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByBarcode retrieves product by barcode (unique).
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// GetForUpdate retrieves product with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)
}
