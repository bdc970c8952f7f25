package audit

import (
	"context"

	"gudang/internal/core/id"
)

// Repository defines persistence for audit entries.
// Entries are append-only; there is no update or delete.
type Repository interface {
	// Create appends an audit entry.
	Create(ctx context.Context, entry *Entry) error

	// ListByEntity returns the trail for an entity, newest first.
	ListByEntity(ctx context.Context, entityType string, entityID id.ID, limit, offset int) ([]Entry, error)
}
