package dto

import (
	"time"

	"gudang/internal/domain/audit"
)

// AuditEntryResponse represents one audit trail record.
type AuditEntryResponse struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Action     string         `json:"action"`
	OldValues  map[string]any `json:"oldValues,omitempty"`
	NewValues  map[string]any `json:"newValues,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// FromAuditEntry converts domain entry to response DTO.
func FromAuditEntry(e audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Action:     string(e.Action),
		OldValues:  e.OldValues,
		NewValues:  e.NewValues,
		Actor:      e.Actor,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}
