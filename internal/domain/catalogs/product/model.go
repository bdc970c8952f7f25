// Package product provides the Product catalog.
package product

import (
	"context"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// Product represents a sellable item tracked in stock.
type Product struct {
	entity.Catalog

	// SKU is the stock keeping unit (unique when set)
	SKU *string `db:"sku" json:"sku,omitempty"`

	// Barcode is EAN-13/UPC barcode (unique when set)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`

	// BaseUomID is the unit all stock levels are stated in
	BaseUomID id.ID `db:"base_uom_id" json:"baseUomId"`

	// Price is the retail price in minor currency units
	Price types.MinorUnits `db:"price" json:"price"`

	// MinStock is the reorder threshold in the base unit
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	// IsActive controls visibility in sales channels
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, baseUomID id.ID) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(code, name),
		BaseUomID: baseUomID,
		IsActive:  true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.BaseUomID) {
		return apperror.NewValidation("base uom is required").
			WithDetail("field", "baseUomId")
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if p.MinStock.IsNegative() {
		return apperror.NewValidation("min stock cannot be negative").
			WithDetail("field", "minStock")
	}

	return nil
}

// IsBelowMinStock reports whether on-hand quantity is below the reorder threshold.
func (p *Product) IsBelowMinStock(onHand types.Quantity) bool {
	return p.MinStock.IsPositive() && onHand < p.MinStock
}
