package disposal

import (
	"context"
	"time"

	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/documents"
)

// Repository defines persistence for disposal documents.
type Repository interface {
	Create(ctx context.Context, doc *Disposal) error
	GetByID(ctx context.Context, docID id.ID) (*Disposal, error)
	GetByNumber(ctx context.Context, number string) (*Disposal, error)
	Update(ctx context.Context, doc *Disposal) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Disposal], error)

	// GetForUpdate locks the document row; must run inside a transaction.
	GetForUpdate(ctx context.Context, docID id.ID) (*Disposal, error)
}

// ListFilter for filtering disposal documents.
type ListFilter struct {
	domain.ListFilter

	ProductID  *id.ID
	LocationID *id.ID
	Status     *documents.ApprovalStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}
