// Package entity provides core domain entities.
package entity

import (
	"time"

	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// MovementType classifies the source of a stock movement.
type MovementType string

const (
	// MovementTypeProcurement - stock added by an approved procurement
	MovementTypeProcurement MovementType = "procurement"
	// MovementTypeDisposal - stock removed by an approved disposal
	MovementTypeDisposal MovementType = "disposal"
	// MovementTypeAdjustment - stock corrected by a completed opname
	MovementTypeAdjustment MovementType = "adjustment"
)

// StockMovement is an append-only record of a stock change.
// Movements are immutable - they are never updated or deleted.
type StockMovement struct {
	// ID is unique identifier for this movement (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Dimensions
	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// Delta is the signed quantity change in the product's base unit.
	// Positive for receipts, negative for removals.
	Delta types.Quantity `db:"delta" json:"delta"`

	// MovementType: procurement, disposal or adjustment
	MovementType MovementType `db:"movement_type" json:"movementType"`

	// ReferenceType is the document type that caused the movement
	ReferenceType string `db:"reference_type" json:"referenceType"`

	// ReferenceID is the document that caused the movement
	ReferenceID id.ID `db:"reference_id" json:"referenceId"`

	// Notes carries optional context (e.g. opname line detail)
	Notes string `db:"notes" json:"notes,omitempty"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a new stock movement with generated ID.
func NewStockMovement(
	productID, locationID id.ID,
	delta types.Quantity,
	movementType MovementType,
	referenceType string,
	referenceID id.ID,
) StockMovement {
	return StockMovement{
		ID:            id.New(),
		ProductID:     productID,
		LocationID:    locationID,
		Delta:         delta,
		MovementType:  movementType,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		CreatedAt:     time.Now().UTC(),
	}
}

// StockLevel is the current on-hand quantity for a (product, location) pair.
// This is the single source of truth for stock; an absent row reads as zero.
type StockLevel struct {
	// Dimensions
	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// Quantity in the product's base unit, never negative
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UpdatedAt is when the level last changed
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
