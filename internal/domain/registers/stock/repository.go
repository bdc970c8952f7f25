// Package stock maintains per-(product, location) stock levels and the
// movement trail. Levels are the single source of truth for on-hand
// quantities; only workflow transitions mutate them.
package stock

import (
	"context"
	"time"

	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// LevelFilter narrows stock level queries.
type LevelFilter struct {
	ProductID  *id.ID
	LocationID *id.ID

	// OnlyBelowMin restricts to products under their reorder threshold
	OnlyBelowMin bool

	Limit  int
	Offset int
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	ProductID    *id.ID
	LocationID   *id.ID
	MovementType *entity.MovementType
	ReferenceID  *id.ID
	DateFrom     *time.Time
	DateTo       *time.Time

	Limit  int
	Offset int
}

// TurnoverFilter narrows turnover queries.
type TurnoverFilter struct {
	ProductID  *id.ID
	LocationID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Turnover aggregates movements for a (product, location) pair over a period.
type Turnover struct {
	ProductID  id.ID          `db:"product_id" json:"productId"`
	LocationID id.ID          `db:"location_id" json:"locationId"`
	Incoming   types.Quantity `db:"incoming" json:"incoming"`
	Outgoing   types.Quantity `db:"outgoing" json:"outgoing"`
	Net        types.Quantity `db:"net" json:"net"`
}

// Repository defines persistence for stock levels and movements.
type Repository interface {
	// GetLevel returns the level row for the pair.
	// Returns NotFound when no row exists (callers read that as zero).
	GetLevel(ctx context.Context, productID, locationID id.ID) (entity.StockLevel, error)

	// GetLevelForUpdate locks the level row (SELECT ... FOR UPDATE).
	// Must be called inside a transaction.
	GetLevelForUpdate(ctx context.Context, productID, locationID id.ID) (entity.StockLevel, error)

	// UpsertLevel inserts or overwrites the level row.
	UpsertLevel(ctx context.Context, level entity.StockLevel) error

	// ListLevels retrieves level rows with filtering.
	ListLevels(ctx context.Context, filter LevelFilter) ([]entity.StockLevel, error)

	// CreateMovements appends movement records (bulk, COPY inside tx).
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// ListMovements retrieves movement history.
	ListMovements(ctx context.Context, filter MovementFilter) ([]entity.StockMovement, error)

	// GetTurnover aggregates incoming/outgoing quantities per pair.
	GetTurnover(ctx context.Context, filter TurnoverFilter) ([]Turnover, error)
}
