// Package uomconversion provides UOM conversion rules and rate resolution.
package uomconversion

import (
	"context"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// Rule is a directed conversion edge: 1 from-unit = Rate to-units.
// At most one rule may exist per unordered UOM pair; the opposite
// direction is derived as 1/Rate.
type Rule struct {
	entity.BaseCatalog

	FromUomID id.ID `db:"from_uom_id" json:"fromUomId"`
	ToUomID   id.ID `db:"to_uom_id" json:"toUomId"`

	// Rate is the multiplier applied to a from-unit quantity, always positive
	Rate types.Rate `db:"rate" json:"rate"`
}

// NewRule creates a conversion rule.
func NewRule(fromUomID, toUomID id.ID, rate types.Rate) *Rule {
	return &Rule{
		BaseCatalog: entity.NewBaseCatalog(),
		FromUomID:   fromUomID,
		ToUomID:     toUomID,
		Rate:        rate,
	}
}

// Validate implements entity.Validatable interface.
func (r *Rule) Validate(ctx context.Context) error {
	if id.IsNil(r.FromUomID) {
		return apperror.NewValidation("from uom is required").
			WithDetail("field", "fromUomId")
	}
	if id.IsNil(r.ToUomID) {
		return apperror.NewValidation("to uom is required").
			WithDetail("field", "toUomId")
	}
	if r.FromUomID == r.ToUomID {
		return apperror.NewValidation("conversion between a uom and itself is implicit").
			WithDetail("field", "toUomId")
	}
	if !r.Rate.IsPositive() {
		return apperror.NewValidation("rate must be positive").
			WithDetail("field", "rate")
	}
	return nil
}
