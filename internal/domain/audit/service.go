package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"context"

	appctx "gudang/internal/core/context"
	"gudang/internal/core/id"
	"gudang/pkg/logger"
)

// Service records audit entries for entity lifecycle and workflow
// transitions. It is called inside the same transaction that performs
// the change, so a rolled-back operation leaves no trail.
type Service struct {
	repo Repository
}

// NewService creates a new audit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an entry with full old/new snapshots.
// The actor is taken from the request context.
func (s *Service) Record(ctx context.Context, entityType string, entityID id.ID, action Action, oldValues, newValues map[string]any, notes string) error {
	entry := &Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValues:  oldValues,
		NewValues:  newValues,
		Actor:      appctx.GetUserID(ctx),
		Notes:      notes,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.Create(ctx, entry)
}

// RecordUpdate appends an update entry carrying only the changed fields.
// No entry is written when nothing changed.
func (s *Service) RecordUpdate(ctx context.Context, entityType string, entityID id.ID, oldState, newState map[string]any) error {
	oldChanged, newChanged := Diff(oldState, newState)
	if len(newChanged) == 0 && len(oldChanged) == 0 {
		logger.Debug(ctx, "skip audit entry, no field changes",
			"entity_type", entityType, "entity_id", entityID.String())
		return nil
	}
	return s.Record(ctx, entityType, entityID, ActionUpdate, oldChanged, newChanged, "")
}

// History returns the trail for an entity, newest first.
func (s *Service) History(ctx context.Context, entityType string, entityID id.ID, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByEntity(ctx, entityType, entityID, limit, offset)
}

// Snapshot converts an entity into a field map via its JSON form.
// Used to build old/new state for Record and Diff.
func Snapshot(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// Diff splits old and new state into per-side maps containing only
// the fields that differ.
func Diff(oldState, newState map[string]any) (oldChanged, newChanged map[string]any) {
	oldChanged = make(map[string]any)
	newChanged = make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists || !equal(oldVal, newVal) {
			if exists {
				oldChanged[key] = oldVal
			}
			newChanged[key] = newVal
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			oldChanged[key] = oldVal
		}
	}

	return oldChanged, newChanged
}

// equal compares two values by their rendered form.
// JSON round-tripped values lose their original Go types, so direct
// comparison would report spurious differences.
func equal(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
