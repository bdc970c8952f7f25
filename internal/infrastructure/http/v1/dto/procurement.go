package dto

import (
	"time"

	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/documents/procurement"
)

// --- Request DTOs ---

// CreateProcurementRequest represents a request to create a procurement.
type CreateProcurementRequest struct {
	Number     string           `json:"number,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	ProductID  string           `json:"productId" binding:"required"`
	LocationID string           `json:"locationId" binding:"required"`
	UomID      string           `json:"uomId" binding:"required"`
	Quantity   types.Quantity   `json:"quantity" binding:"required"`
	UnitPrice  types.MinorUnits `json:"unitPrice"`
	Supplier   string           `json:"supplier,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateProcurementRequest) ToEntity() *procurement.Procurement {
	productID, _ := id.Parse(r.ProductID)
	locationID, _ := id.Parse(r.LocationID)
	uomID, _ := id.Parse(r.UomID)

	doc := procurement.NewProcurement(productID, locationID, uomID, r.Quantity)
	doc.Number = r.Number
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.UnitPrice = r.UnitPrice
	doc.Supplier = r.Supplier
	doc.Notes = r.Notes
	return doc
}

// UpdateProcurementRequest represents a request to update a procurement.
type UpdateProcurementRequest struct {
	Date       *time.Time        `json:"date,omitempty"`
	ProductID  *string           `json:"productId,omitempty"`
	LocationID *string           `json:"locationId,omitempty"`
	UomID      *string           `json:"uomId,omitempty"`
	Quantity   *types.Quantity   `json:"quantity,omitempty"`
	UnitPrice  *types.MinorUnits `json:"unitPrice,omitempty"`
	Supplier   *string           `json:"supplier,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProcurementRequest) ApplyTo(doc *procurement.Procurement) {
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
	if r.UnitPrice != nil {
		doc.UnitPrice = *r.UnitPrice
	}
	if r.Supplier != nil {
		doc.Supplier = *r.Supplier
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}
}

// --- Response DTOs ---

// ProcurementResponse represents a procurement in API responses.
type ProcurementResponse struct {
	ID           string           `json:"id"`
	Number       string           `json:"number"`
	Date         time.Time        `json:"date"`
	ProductID    string           `json:"productId"`
	LocationID   string           `json:"locationId"`
	UomID        string           `json:"uomId"`
	Quantity     types.Quantity   `json:"quantity"`
	UnitPrice    types.MinorUnits `json:"unitPrice"`
	Supplier     string           `json:"supplier,omitempty"`
	Status       string           `json:"status"`
	ApprovedBy   *string          `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time       `json:"approvedAt,omitempty"`
	RejectedBy   *string          `json:"rejectedBy,omitempty"`
	RejectedAt   *time.Time       `json:"rejectedAt,omitempty"`
	RejectReason string           `json:"rejectReason,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	DeletionMark bool             `json:"deletionMark,omitempty"`
	Version      int              `json:"version"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	CreatedBy    string           `json:"createdBy,omitempty"`
}

// FromProcurement converts domain entity to response DTO.
func FromProcurement(doc *procurement.Procurement) *ProcurementResponse {
	return &ProcurementResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		Date:         doc.Date,
		ProductID:    doc.ProductID.String(),
		LocationID:   doc.LocationID.String(),
		UomID:        doc.UomID.String(),
		Quantity:     doc.Quantity,
		UnitPrice:    doc.UnitPrice,
		Supplier:     doc.Supplier,
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
