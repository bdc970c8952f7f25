// Package opname provides the StockOpname document: a physical count
// that reconciles recorded stock with reality at one location.
package opname

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// EntityType identifies opname documents in movements and audit entries.
const EntityType = "stock_opname"

// Status is the opname lifecycle status.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// StockOpname is a physical count document. Lines snapshot the
// recorded stock when entered; completing the opname overwrites stock
// levels with the counted quantities.
type StockOpname struct {
	entity.Document

	LocationID id.ID  `db:"location_id" json:"locationId"`
	Status     Status `db:"status" json:"status"`

	CompletedBy *string    `db:"completed_by" json:"completedBy,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`

	CancelledBy *string    `db:"cancelled_by" json:"cancelledBy,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one counted product within the opname.
type Line struct {
	LineNo    int   `db:"line_no" json:"lineNo"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// RecordedStock is the register snapshot taken when the line was set,
	// in the product's base unit
	RecordedStock types.Quantity `db:"recorded_stock" json:"recordedStock"`

	// ActualStock is the counted quantity, never negative
	ActualStock types.Quantity `db:"actual_stock" json:"actualStock"`

	// Difference = actual - recorded
	Difference types.Quantity `db:"difference" json:"difference"`
}

// NewStockOpname creates a draft opname for a location.
func NewStockOpname(locationID id.ID) *StockOpname {
	return &StockOpname{
		Document:   entity.NewDocument(),
		LocationID: locationID,
		Status:     StatusDraft,
		Lines:      make([]Line, 0),
	}
}

// Validate implements entity.Validatable.
func (o *StockOpname) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}
	if !o.Status.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("status", string(o.Status))
	}

	seen := make(map[id.ID]int, len(o.Lines))
	for i, line := range o.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("line product is required").
				WithDetail("lineNo", i+1)
		}
		if line.ActualStock.IsNegative() {
			return apperror.NewValidation("actual stock cannot be negative").
				WithDetail("lineNo", i+1).
				WithDetail("actualStock", line.ActualStock.String())
		}
		if prev, dup := seen[line.ProductID]; dup {
			return apperror.NewValidation("duplicate product in opname lines").
				WithDetail("lineNo", i+1).
				WithDetail("duplicateOfLineNo", prev)
		}
		seen[line.ProductID] = i + 1
	}

	return nil
}

// IsEditable reports whether lines can still be changed.
func (o *StockOpname) IsEditable() bool {
	return o.Status == StatusDraft
}

// Complete transitions the opname to completed. Irreversible.
func (o *StockOpname) Complete(by string) error {
	if o.Status != StatusDraft {
		return apperror.NewConflict("opname already " + string(o.Status))
	}
	now := time.Now().UTC()
	o.Status = StatusCompleted
	o.CompletedBy = &by
	o.CompletedAt = &now
	return nil
}

// Cancel transitions the opname to cancelled. Completed opnames
// cannot be cancelled.
func (o *StockOpname) Cancel(by string) error {
	if o.Status != StatusDraft {
		return apperror.NewConflict("opname already " + string(o.Status))
	}
	now := time.Now().UTC()
	o.Status = StatusCancelled
	o.CancelledBy = &by
	o.CancelledAt = &now
	return nil
}
