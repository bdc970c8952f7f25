// Package audit records who changed what, when, for every entity.
package audit

import (
	"time"

	"gudang/internal/core/id"
)

// Action classifies an audited operation.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionRestore  Action = "restore"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Entry is a single audit record.
// OldValues/NewValues hold structured snapshots; for updates only the
// changed fields are recorded.
type Entry struct {
	ID         id.ID          `db:"id" json:"id"`
	EntityType string         `db:"entity_type" json:"entityType"`
	EntityID   id.ID          `db:"entity_id" json:"entityId"`
	Action     Action         `db:"action" json:"action"`
	OldValues  map[string]any `db:"old_values" json:"oldValues,omitempty"`
	NewValues  map[string]any `db:"new_values" json:"newValues,omitempty"`
	Actor      string         `db:"actor" json:"actor,omitempty"`
	Notes      string         `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}
