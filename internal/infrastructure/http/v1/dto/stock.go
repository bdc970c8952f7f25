package dto

import (
	"time"

	"gudang/internal/core/entity"
	"gudang/internal/core/types"
	"gudang/internal/domain/registers/stock"
)

// --- Stock Levels ---

// StockLevelResponse represents an on-hand quantity for a (product, location) pair.
type StockLevelResponse struct {
	ProductID  string         `json:"productId"`
	LocationID string         `json:"locationId"`
	Quantity   types.Quantity `json:"quantity"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// FromStockLevel converts domain entity to response DTO.
func FromStockLevel(level entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:  level.ProductID.String(),
		LocationID: level.LocationID.String(),
		Quantity:   level.Quantity,
		UpdatedAt:  level.UpdatedAt,
	}
}

// --- Stock Movements ---

// StockMovementResponse represents one record of the movement trail.
type StockMovementResponse struct {
	ID            string         `json:"id"`
	ProductID     string         `json:"productId"`
	LocationID    string         `json:"locationId"`
	Delta         types.Quantity `json:"delta"`
	MovementType  string         `json:"movementType"`
	ReferenceType string         `json:"referenceType"`
	ReferenceID   string         `json:"referenceId"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// FromStockMovement converts domain entity to response DTO.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID.String(),
		ProductID:     m.ProductID.String(),
		LocationID:    m.LocationID.String(),
		Delta:         m.Delta,
		MovementType:  string(m.MovementType),
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID.String(),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// --- Turnover ---

// TurnoverResponse aggregates movements for a (product, location) pair.
type TurnoverResponse struct {
	ProductID  string         `json:"productId"`
	LocationID string         `json:"locationId"`
	Incoming   types.Quantity `json:"incoming"`
	Outgoing   types.Quantity `json:"outgoing"`
	Net        types.Quantity `json:"net"`
}

// FromTurnover converts domain aggregate to response DTO.
func FromTurnover(t stock.Turnover) TurnoverResponse {
	return TurnoverResponse{
		ProductID:  t.ProductID.String(),
		LocationID: t.LocationID.String(),
		Incoming:   t.Incoming,
		Outgoing:   t.Outgoing,
		Net:        t.Net,
	}
}
