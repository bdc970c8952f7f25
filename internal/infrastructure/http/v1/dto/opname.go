package dto

import (
	"time"

	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/documents/opname"
)

// --- Request DTOs ---

// CreateStockOpnameRequest represents a request to create a stock opname.
type CreateStockOpnameRequest struct {
	Number     string                   `json:"number,omitempty"`
	Date       *time.Time               `json:"date,omitempty"`
	LocationID string                   `json:"locationId" binding:"required"`
	Notes      string                   `json:"notes,omitempty"`
	Lines      []StockOpnameLineRequest `json:"lines,omitempty"`
}

// StockOpnameLineRequest represents a counted line in create/update requests.
// RecordedStock is snapshotted server-side and ignored on input.
type StockOpnameLineRequest struct {
	ProductID   string         `json:"productId" binding:"required"`
	ActualStock types.Quantity `json:"actualStock"`
}

// ToEntity converts request to domain entity.
func (r *CreateStockOpnameRequest) ToEntity() *opname.StockOpname {
	locationID, _ := id.Parse(r.LocationID)

	doc := opname.NewStockOpname(locationID)
	doc.Number = r.Number
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Notes = r.Notes

	for i, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.Lines = append(doc.Lines, opname.Line{
			LineNo:      i + 1,
			ProductID:   productID,
			ActualStock: line.ActualStock,
		})
	}
	return doc
}

// UpdateStockOpnameRequest represents a request to update a draft opname.
type UpdateStockOpnameRequest struct {
	Date       *time.Time               `json:"date,omitempty"`
	LocationID *string                  `json:"locationId,omitempty"`
	Notes      *string                  `json:"notes,omitempty"`
	Lines      []StockOpnameLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateStockOpnameRequest) ApplyTo(doc *opname.StockOpname) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.LocationID != nil {
		locationID, _ := id.Parse(*r.LocationID)
		doc.LocationID = locationID
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}

	if r.Lines != nil {
		doc.Lines = make([]opname.Line, 0, len(r.Lines))
		for i, line := range r.Lines {
			productID, _ := id.Parse(line.ProductID)
			doc.Lines = append(doc.Lines, opname.Line{
				LineNo:      i + 1,
				ProductID:   productID,
				ActualStock: line.ActualStock,
			})
		}
	}
}

// --- Response DTOs ---

// StockOpnameResponse represents a stock opname in API responses.
type StockOpnameResponse struct {
	ID           string                    `json:"id"`
	Number       string                    `json:"number"`
	Date         time.Time                 `json:"date"`
	LocationID   string                    `json:"locationId"`
	Status       string                    `json:"status"`
	CompletedBy  *string                   `json:"completedBy,omitempty"`
	CompletedAt  *time.Time                `json:"completedAt,omitempty"`
	CancelledBy  *string                   `json:"cancelledBy,omitempty"`
	CancelledAt  *time.Time                `json:"cancelledAt,omitempty"`
	Notes        string                    `json:"notes,omitempty"`
	Lines        []StockOpnameLineResponse `json:"lines"`
	DeletionMark bool                      `json:"deletionMark,omitempty"`
	Version      int                       `json:"version"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
	CreatedBy    string                    `json:"createdBy,omitempty"`
}

// StockOpnameLineResponse represents a counted line in API responses.
type StockOpnameLineResponse struct {
	LineNo        int            `json:"lineNo"`
	ProductID     string         `json:"productId"`
	RecordedStock types.Quantity `json:"recordedStock"`
	ActualStock   types.Quantity `json:"actualStock"`
	Difference    types.Quantity `json:"difference"`
}

// FromStockOpname converts domain entity to response DTO.
func FromStockOpname(doc *opname.StockOpname) *StockOpnameResponse {
	resp := &StockOpnameResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		Date:         doc.Date,
		LocationID:   doc.LocationID.String(),
		Status:       string(doc.Status),
		CompletedBy:  doc.CompletedBy,
		CompletedAt:  doc.CompletedAt,
		CancelledBy:  doc.CancelledBy,
		CancelledAt:  doc.CancelledAt,
		Notes:        doc.Notes,
		DeletionMark: doc.DeletionMark,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		CreatedBy:    doc.CreatedBy,
	}

	resp.Lines = make([]StockOpnameLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = StockOpnameLineResponse{
			LineNo:        line.LineNo,
			ProductID:     line.ProductID.String(),
			RecordedStock: line.RecordedStock,
			ActualStock:   line.ActualStock,
			Difference:    line.Difference,
		}
	}
	return resp
}
