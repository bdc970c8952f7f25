package uomconversion

import (
	"context"

	"gudang/internal/core/id"
	"gudang/internal/domain"
)

// Repository defines the interface for conversion rule persistence.
type Repository interface {
	// Create inserts a new rule
	Create(ctx context.Context, rule *Rule) error

	// GetByID retrieves rule by ID
	GetByID(ctx context.Context, id id.ID) (*Rule, error)

	// Update modifies existing rule (with optimistic locking)
	Update(ctx context.Context, rule *Rule) error

	// SetDeletionMark sets or clears the deletion mark
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	// FindByPair retrieves the rule for the exact ordered (from, to) pair.
	// Returns NotFound when no such edge exists.
	FindByPair(ctx context.Context, fromUomID, toUomID id.ID) (*Rule, error)

	// List retrieves rules with pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Rule], error)
}
