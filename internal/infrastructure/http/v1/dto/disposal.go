package dto

import (
	"time"

	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/documents/disposal"
)

// --- Request DTOs ---

// CreateDisposalRequest represents a request to create a disposal.
type CreateDisposalRequest struct {
	Number     string         `json:"number,omitempty"`
	Date       *time.Time     `json:"date,omitempty"`
	ProductID  string         `json:"productId" binding:"required"`
	LocationID string         `json:"locationId" binding:"required"`
	UomID      string         `json:"uomId" binding:"required"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	Reason     string         `json:"reason" binding:"required"`
	Notes      string         `json:"notes,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateDisposalRequest) ToEntity() *disposal.Disposal {
	productID, _ := id.Parse(r.ProductID)
	locationID, _ := id.Parse(r.LocationID)
	uomID, _ := id.Parse(r.UomID)

	doc := disposal.NewDisposal(productID, locationID, uomID, r.Quantity, r.Reason)
	doc.Number = r.Number
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Notes = r.Notes
	return doc
}

// UpdateDisposalRequest represents a request to update a disposal.
type UpdateDisposalRequest struct {
	Date       *time.Time      `json:"date,omitempty"`
	ProductID  *string         `json:"productId,omitempty"`
	LocationID *string         `json:"locationId,omitempty"`
	UomID      *string         `json:"uomId,omitempty"`
	Quantity   *types.Quantity `json:"quantity,omitempty"`
	Reason     *string         `json:"reason,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateDisposalRequest) ApplyTo(doc *disposal.Disposal) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.ProductID != nil {
		productID, _ := id.Parse(*r.ProductID)
		doc.ProductID = productID
	}
	if r.LocationID != nil {
		locationID, _ := id.Parse(*r.LocationID)
		doc.LocationID = locationID
	}
	if r.UomID != nil {
		uomID, _ := id.Parse(*r.UomID)
		doc.UomID = uomID
	}
	if r.Quantity != nil {
		doc.Quantity = *r.Quantity
	}
	if r.Reason != nil {
		doc.Reason = *r.Reason
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}
}

// --- Response DTOs ---

// DisposalResponse represents a disposal in API responses.
type DisposalResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	Date         time.Time      `json:"date"`
	ProductID    string         `json:"productId"`
	LocationID   string         `json:"locationId"`
	UomID        string         `json:"uomId"`
	Quantity     types.Quantity `json:"quantity"`
	Reason       string         `json:"reason"`
	Status       string         `json:"status"`
	ApprovedBy   *string        `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time     `json:"approvedAt,omitempty"`
	RejectedBy   *string        `json:"rejectedBy,omitempty"`
	RejectedAt   *time.Time     `json:"rejectedAt,omitempty"`
	RejectReason string         `json:"rejectReason,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	DeletionMark bool           `json:"deletionMark,omitempty"`
	Version      int            `json:"version"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	CreatedBy    string         `json:"createdBy,omitempty"`
}

// FromDisposal converts domain entity to response DTO.
func FromDisposal(doc *disposal.Disposal) *DisposalResponse {
	return &DisposalResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		Date:         doc.Date,
		ProductID:    doc.ProductID.String(),
		LocationID:   doc.LocationID.String(),
		UomID:        doc.UomID.String(),
		Quantity:     doc.Quantity,
		Reason:       doc.Reason,
		Status:       string(doc.Status),
		ApprovedBy:   doc.ApprovedBy,
		ApprovedAt:   doc.ApprovedAt,
		RejectedBy:   doc.RejectedBy,
		RejectedAt:   doc.RejectedAt,
		RejectReason: doc.RejectReason,
		Notes:        doc.Notes,
		DeletionMark: doc.DeletionMark,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		CreatedBy:    doc.CreatedBy,
	}
}
