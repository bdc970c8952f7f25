package procurement

import (
	"context"
	"time"

	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/documents"
)

// Repository defines persistence for procurement documents.
type Repository interface {
	Create(ctx context.Context, doc *Procurement) error
	GetByID(ctx context.Context, docID id.ID) (*Procurement, error)
	GetByNumber(ctx context.Context, number string) (*Procurement, error)
	Update(ctx context.Context, doc *Procurement) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Procurement], error)

	// GetForUpdate locks the document row; must run inside a transaction.
	GetForUpdate(ctx context.Context, docID id.ID) (*Procurement, error)
}

// ListFilter for filtering procurement documents.
type ListFilter struct {
	domain.ListFilter

	ProductID  *id.ID
	LocationID *id.ID
	Status     *documents.ApprovalStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}
