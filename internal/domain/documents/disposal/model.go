// Package disposal provides the Disposal document: stock written off
// for damage, expiry or loss, effective only once approved.
package disposal

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/documents"
)

// EntityType identifies disposal documents in movements and audit entries.
const EntityType = "disposal"

// Disposal represents a stock write-off pending approval.
// Quantity is stated in UomID and converted to the product's base unit
// when the document is applied.
type Disposal struct {
	entity.Document

	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`
	UomID      id.ID `db:"uom_id" json:"uomId"`

	// Quantity in UomID units, must be positive
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// AppliedQty is the base-unit quantity currently removed from
	// stock, recorded at apply time. Reversals add back this stored
	// amount so conversion rule edits cannot skew them. Zero while the
	// document has no stock effect.
	AppliedQty types.Quantity `db:"applied_qty" json:"appliedQty,omitempty"`

	// Reason for the write-off (damaged, expired, lost, ...)
	Reason string `db:"reason" json:"reason"`

	Status documents.ApprovalStatus `db:"status" json:"status"`

	ApprovedBy *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `db:"approved_at" json:"approvedAt,omitempty"`

	RejectedBy   *string    `db:"rejected_by" json:"rejectedBy,omitempty"`
	RejectedAt   *time.Time `db:"rejected_at" json:"rejectedAt,omitempty"`
	RejectReason string     `db:"reject_reason" json:"rejectReason,omitempty"`
}

// NewDisposal creates a pending disposal document.
func NewDisposal(productID, locationID, uomID id.ID, quantity types.Quantity, reason string) *Disposal {
	return &Disposal{
		Document:   entity.NewDocument(),
		ProductID:  productID,
		LocationID: locationID,
		UomID:      uomID,
		Quantity:   quantity,
		Reason:     reason,
		Status:     documents.StatusPending,
	}
}

// Validate implements entity.Validatable.
func (d *Disposal) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if id.IsNil(d.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}
	if id.IsNil(d.UomID) {
		return apperror.NewValidation("uom is required").
			WithDetail("field", "uomId")
	}
	if !d.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("quantity", d.Quantity.String())
	}
	if d.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}
	if !d.Status.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("status", string(d.Status))
	}

	return nil
}

// Approve transitions the document to approved.
func (d *Disposal) Approve(by string) error {
	if err := d.Status.CanApprove(); err != nil {
		return err
	}
	now := time.Now().UTC()
	d.Status = documents.StatusApproved
	d.ApprovedBy = &by
	d.ApprovedAt = &now
	return nil
}

// Reject transitions the document to rejected.
func (d *Disposal) Reject(by, reason string) error {
	if err := d.Status.CanReject(); err != nil {
		return err
	}
	now := time.Now().UTC()
	d.Status = documents.StatusRejected
	d.RejectedBy = &by
	d.RejectedAt = &now
	d.RejectReason = reason
	return nil
}

// IsApproved reports whether the document currently affects stock.
func (d *Disposal) IsApproved() bool {
	return d.Status == documents.StatusApproved
}
