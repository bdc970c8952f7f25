// Package procurement provides the Procurement document: incoming
// stock that takes effect only once approved.
package procurement

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/documents"
)

// EntityType identifies procurement documents in movements and audit entries.
const EntityType = "procurement"

// Procurement represents a purchase of stock pending approval.
// Quantity is stated in UomID and converted to the product's base unit
// when the document is applied.
type Procurement struct {
	entity.Document

	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`
	UomID      id.ID `db:"uom_id" json:"uomId"`

	// Quantity in UomID units, must be positive
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// AppliedQty is the base-unit quantity currently applied to stock,
	// recorded at apply time. Reversals subtract this stored amount so
	// conversion rule edits cannot skew them. Zero while the document
	// has no stock effect.
	AppliedQty types.Quantity `db:"applied_qty" json:"appliedQty,omitempty"`

	// UnitPrice per UomID unit, in minor currency units
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`

	// Supplier is free-form text, not a catalog reference
	Supplier string `db:"supplier" json:"supplier,omitempty"`

	Status documents.ApprovalStatus `db:"status" json:"status"`

	ApprovedBy *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `db:"approved_at" json:"approvedAt,omitempty"`

	RejectedBy   *string    `db:"rejected_by" json:"rejectedBy,omitempty"`
	RejectedAt   *time.Time `db:"rejected_at" json:"rejectedAt,omitempty"`
	RejectReason string     `db:"reject_reason" json:"rejectReason,omitempty"`
}

// NewProcurement creates a pending procurement document.
func NewProcurement(productID, locationID, uomID id.ID, quantity types.Quantity) *Procurement {
	return &Procurement{
		Document:   entity.NewDocument(),
		ProductID:  productID,
		LocationID: locationID,
		UomID:      uomID,
		Quantity:   quantity,
		Status:     documents.StatusPending,
	}
}

// Validate implements entity.Validatable.
func (p *Procurement) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if id.IsNil(p.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}
	if id.IsNil(p.UomID) {
		return apperror.NewValidation("uom is required").
			WithDetail("field", "uomId")
	}
	if !p.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("quantity", p.Quantity.String())
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if !p.Status.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("status", string(p.Status))
	}

	return nil
}

// Approve transitions the document to approved.
func (p *Procurement) Approve(by string) error {
	if err := p.Status.CanApprove(); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.Status = documents.StatusApproved
	p.ApprovedBy = &by
	p.ApprovedAt = &now
	return nil
}

// Reject transitions the document to rejected.
func (p *Procurement) Reject(by, reason string) error {
	if err := p.Status.CanReject(); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.Status = documents.StatusRejected
	p.RejectedBy = &by
	p.RejectedAt = &now
	p.RejectReason = reason
	return nil
}

// IsApproved reports whether the document currently affects stock.
func (p *Procurement) IsApproved() bool {
	return p.Status == documents.StatusApproved
}
