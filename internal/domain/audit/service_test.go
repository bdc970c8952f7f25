package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "gudang/internal/core/context"
	"gudang/internal/core/id"
)

type fakeAuditRepo struct {
	entries []Entry
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *Entry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(_ context.Context, entityType string, entityID id.ID, _, _ int) ([]Entry, error) {
	var out []Entry
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestDiff(t *testing.T) {
	oldState := map[string]any{"name": "Cola", "price": 1500, "notes": "x"}
	newState := map[string]any{"name": "Cola Zero", "price": 1500, "sku": "C-01"}

	oldChanged, newChanged := Diff(oldState, newState)

	assert.Equal(t, map[string]any{"name": "Cola", "notes": "x"}, oldChanged)
	assert.Equal(t, map[string]any{"name": "Cola Zero", "sku": "C-01"}, newChanged)
}

func TestDiffNoChanges(t *testing.T) {
	state := map[string]any{"name": "Cola", "price": 1500}

	oldChanged, newChanged := Diff(state, state)
	assert.Empty(t, oldChanged)
	assert.Empty(t, newChanged)
}

func TestRecordUpdateSkipsNoop(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)
	entityID := id.New()
	state := map[string]any{"name": "Cola"}

	require.NoError(t, svc.RecordUpdate(context.Background(), "product", entityID, state, state))
	assert.Empty(t, repo.entries)
}

func TestRecordCapturesActor(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)
	entityID := id.New()

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-1"})
	require.NoError(t, svc.Record(ctx, "procurement", entityID, ActionApprove,
		map[string]any{"status": "pending"}, map[string]any{"status": "approved"}, ""))

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "u-1", entry.Actor)
	assert.Equal(t, ActionApprove, entry.Action)
	assert.False(t, id.IsNil(entry.ID))
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestSnapshotRoundTrip(t *testing.T) {
	type demo struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
	}

	m := Snapshot(demo{Name: "Cola", Price: 1500})
	require.NotNil(t, m)
	assert.Equal(t, "Cola", m["name"])
	assert.EqualValues(t, 1500, m["price"])
}
