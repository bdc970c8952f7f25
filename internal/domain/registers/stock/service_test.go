package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// --- test doubles ---

type pairKey struct {
	product  id.ID
	location id.ID
}

type fakeStockRepo struct {
	levels    map[pairKey]entity.StockLevel
	movements []entity.StockMovement
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{levels: make(map[pairKey]entity.StockLevel)}
}

func (f *fakeStockRepo) GetLevel(_ context.Context, productID, locationID id.ID) (entity.StockLevel, error) {
	level, ok := f.levels[pairKey{productID, locationID}]
	if !ok {
		return entity.StockLevel{}, apperror.NewNotFound("stock level", productID.String())
	}
	return level, nil
}

func (f *fakeStockRepo) GetLevelForUpdate(ctx context.Context, productID, locationID id.ID) (entity.StockLevel, error) {
	return f.GetLevel(ctx, productID, locationID)
}

func (f *fakeStockRepo) UpsertLevel(_ context.Context, level entity.StockLevel) error {
	f.levels[pairKey{level.ProductID, level.LocationID}] = level
	return nil
}

func (f *fakeStockRepo) ListLevels(_ context.Context, _ LevelFilter) ([]entity.StockLevel, error) {
	out := make([]entity.StockLevel, 0, len(f.levels))
	for _, l := range f.levels {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeStockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeStockRepo) ListMovements(_ context.Context, _ MovementFilter) ([]entity.StockMovement, error) {
	return f.movements, nil
}

func (f *fakeStockRepo) GetTurnover(_ context.Context, _ TurnoverFilter) ([]Turnover, error) {
	return nil, nil
}

type fakeChecker struct {
	known map[id.ID]bool
}

func (f *fakeChecker) Exists(_ context.Context, entityID id.ID) (bool, error) {
	return f.known[entityID], nil
}

func newTestStockService(products, locations []id.ID) (*Service, *fakeStockRepo) {
	repo := newFakeStockRepo()
	pc := &fakeChecker{known: make(map[id.ID]bool)}
	for _, p := range products {
		pc.known[p] = true
	}
	lc := &fakeChecker{known: make(map[id.ID]bool)}
	for _, l := range locations {
		lc.known[l] = true
	}
	return NewService(repo, pc, lc), repo
}

// --- tests ---

func TestGetDefaultsToZero(t *testing.T) {
	productID := id.New()
	locationID := id.New()
	svc, _ := newTestStockService([]id.ID{productID}, []id.ID{locationID})

	qty, err := svc.Get(context.Background(), productID, locationID)
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestGetUnknownProduct(t *testing.T) {
	locationID := id.New()
	svc, _ := newTestStockService(nil, []id.ID{locationID})

	_, err := svc.Get(context.Background(), id.New(), locationID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetAndGetRoundTrip(t *testing.T) {
	productID := id.New()
	locationID := id.New()
	svc, _ := newTestStockService([]id.ID{productID}, []id.ID{locationID})

	want := types.NewQuantityFromFloat64(41.5)
	require.NoError(t, svc.Set(context.Background(), productID, locationID, want))

	got, err := svc.Get(context.Background(), productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Overwrite, not increment
	require.NoError(t, svc.Set(context.Background(), productID, locationID, types.NewQuantityFromFloat64(10)))
	got, err = svc.Get(context.Background(), productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), got)
}

func TestSetRejectsNegative(t *testing.T) {
	productID := id.New()
	locationID := id.New()
	svc, repo := newTestStockService([]id.ID{productID}, []id.ID{locationID})

	err := svc.Set(context.Background(), productID, locationID, types.NewQuantityFromFloat64(-0.0001))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.levels, "negative value must never be persisted")
}

func TestSetZeroKeepsRow(t *testing.T) {
	productID := id.New()
	locationID := id.New()
	svc, repo := newTestStockService([]id.ID{productID}, []id.ID{locationID})

	require.NoError(t, svc.Set(context.Background(), productID, locationID, 0))
	assert.Len(t, repo.levels, 1)
}

func TestRecordMovementsValidation(t *testing.T) {
	productID := id.New()
	locationID := id.New()
	svc, repo := newTestStockService([]id.ID{productID}, []id.ID{locationID})

	valid := entity.NewStockMovement(
		productID, locationID,
		types.NewQuantityFromFloat64(5),
		entity.MovementTypeProcurement,
		"procurement", id.New(),
	)

	tests := []struct {
		name    string
		mutate  func(m *entity.StockMovement)
		wantErr bool
	}{
		{"valid", func(m *entity.StockMovement) {}, false},
		{"zero delta", func(m *entity.StockMovement) { m.Delta = 0 }, true},
		{"bad type", func(m *entity.StockMovement) { m.MovementType = "transfer" }, true},
		{"no reference", func(m *entity.StockMovement) { m.ReferenceID = id.Nil() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			m.ID = id.New()
			m.CreatedAt = time.Now().UTC()
			tt.mutate(&m)
			err := svc.RecordMovements(context.Background(), []entity.StockMovement{m})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}

	assert.Len(t, repo.movements, 1)
}
