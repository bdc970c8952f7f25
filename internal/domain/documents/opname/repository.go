package opname

import (
	"context"
	"time"

	"gudang/internal/core/id"
	"gudang/internal/domain"
)

// Repository defines persistence for opname documents.
// Lines are replaced wholesale: SaveLines deletes and reinserts.
type Repository interface {
	Create(ctx context.Context, doc *StockOpname) error
	GetByID(ctx context.Context, docID id.ID) (*StockOpname, error)
	GetByNumber(ctx context.Context, number string) (*StockOpname, error)
	Update(ctx context.Context, doc *StockOpname) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOpname], error)

	// GetForUpdate locks the document row; must run inside a transaction.
	GetForUpdate(ctx context.Context, docID id.ID) (*StockOpname, error)
}

// ListFilter for filtering opname documents.
type ListFilter struct {
	domain.ListFilter

	LocationID *id.ID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}
