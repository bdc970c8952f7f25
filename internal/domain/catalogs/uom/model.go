// Package uom provides the unit-of-measure catalog.
package uom

import (
	"context"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
)

// Uom represents a measurement unit (piece, box, kilogram, ...).
type Uom struct {
	entity.Catalog

	// Symbol is the short symbol (e.g., "kg", "pcs", "box"), unique
	Symbol string `db:"symbol" json:"symbol"`

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`
}

// NewUom creates a new Uom with required fields.
func NewUom(code, name, symbol string) *Uom {
	return &Uom{
		Catalog: entity.NewCatalog(code, name),
		Symbol:  symbol,
	}
}

// Validate implements entity.Validatable interface.
func (u *Uom) Validate(ctx context.Context) error {
	if err := u.Catalog.Validate(ctx); err != nil {
		return err
	}

	if u.Symbol == "" {
		return apperror.NewValidation("symbol is required").
			WithDetail("field", "symbol")
	}

	return nil
}
