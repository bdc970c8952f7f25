package opname

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	appctx "gudang/internal/core/context"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/numerator"
	"gudang/internal/core/types"
	"gudang/internal/domain"
	"gudang/internal/domain/audit"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]*StockOpname
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*StockOpname),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(_ context.Context, doc *StockOpname) error {
	clone := *doc
	clone.Lines = nil
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, docID id.ID) (*StockOpname, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound(EntityType, docID.String())
	}
	clone := *doc
	clone.Lines = nil
	return &clone, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*StockOpname, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			clone := *doc
			clone.Lines = nil
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound(EntityType, number)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*StockOpname, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeRepo) Update(_ context.Context, doc *StockOpname) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound(EntityType, doc.ID.String())
	}
	clone := *doc
	clone.Lines = nil
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), f.lines[docID]...), nil
}

func (f *fakeRepo) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	f.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*StockOpname], error) {
	result := domain.ListResult[*StockOpname]{}
	for _, doc := range f.docs {
		clone := *doc
		result.Items = append(result.Items, &clone)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type pairKey struct {
	product  id.ID
	location id.ID
}

type fakeStock struct {
	levels    map[pairKey]types.Quantity
	movements []entity.StockMovement
}

func newFakeStock() *fakeStock {
	return &fakeStock{levels: make(map[pairKey]types.Quantity)}
}

func (f *fakeStock) Get(_ context.Context, productID, locationID id.ID) (types.Quantity, error) {
	return f.levels[pairKey{productID, locationID}], nil
}

func (f *fakeStock) GetForUpdate(ctx context.Context, productID, locationID id.ID) (types.Quantity, error) {
	return f.Get(ctx, productID, locationID)
}

func (f *fakeStock) Set(_ context.Context, productID, locationID id.ID, qty types.Quantity) error {
	if qty.IsNegative() {
		return apperror.NewValidation("stock quantity cannot be negative")
	}
	f.levels[pairKey{productID, locationID}] = qty
	return nil
}

func (f *fakeStock) RecordMovements(_ context.Context, movements []entity.StockMovement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

type fakeChecker struct{ ok bool }

func (f fakeChecker) Exists(context.Context, id.ID) (bool, error) { return f.ok, nil }

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *audit.Entry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(_ context.Context, _ string, _ id.ID, _, _ int) ([]audit.Entry, error) {
	return f.entries, nil
}

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	stock     *fakeStock
	auditRepo *fakeAuditRepo

	locationID id.ID
	colaID     id.ID
	milkID     id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:       newFakeRepo(),
		stock:      newFakeStock(),
		auditRepo:  &fakeAuditRepo{},
		locationID: id.New(),
		colaID:     id.New(),
		milkID:     id.New(),
	}
	f.setStock(f.colaID, 10)
	f.setStock(f.milkID, 20)

	f.svc = NewService(
		f.repo,
		f.stock,
		fakeChecker{ok: true},
		fakeChecker{ok: true},
		audit.NewService(f.auditRepo),
		&numerator.MockGenerator{},
		fakeTxManager{},
	)
	return f
}

func (f *fixture) setStock(productID id.ID, qty float64) {
	f.stock.levels[pairKey{productID, f.locationID}] = types.NewQuantityFromFloat64(qty)
}

func (f *fixture) onHand(productID id.ID) types.Quantity {
	return f.stock.levels[pairKey{productID, f.locationID}]
}

func (f *fixture) newDoc(actualCola, actualMilk float64) *StockOpname {
	doc := NewStockOpname(f.locationID)
	doc.Lines = []Line{
		{ProductID: f.colaID, ActualStock: types.NewQuantityFromFloat64(actualCola)},
		{ProductID: f.milkID, ActualStock: types.NewQuantityFromFloat64(actualMilk)},
	}
	return doc
}

func testCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "counter-1"})
}

func TestCreateSnapshotsRecordedStock(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)

	require.NoError(t, f.svc.Create(testCtx(), doc))

	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, "MOCK-2026-00001", doc.Number)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, types.NewQuantityFromFloat64(10), doc.Lines[0].RecordedStock)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), doc.Lines[0].Difference)
	assert.Equal(t, types.NewQuantityFromFloat64(0), doc.Lines[1].Difference)

	// Creating never touches stock.
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand(f.colaID))
}

func TestCreateRejectsNegativeActual(t *testing.T) {
	f := newFixture(t)
	doc := NewStockOpname(f.locationID)
	doc.Lines = []Line{
		{ProductID: f.colaID, ActualStock: types.NewQuantityFromFloat64(-1)},
	}

	err := f.svc.Create(testCtx(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateRejectsDuplicateProducts(t *testing.T) {
	f := newFixture(t)
	doc := NewStockOpname(f.locationID)
	doc.Lines = []Line{
		{ProductID: f.colaID, ActualStock: types.NewQuantityFromFloat64(5)},
		{ProductID: f.colaID, ActualStock: types.NewQuantityFromFloat64(6)},
	}

	err := f.svc.Create(testCtx(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCompleteOverwritesStock(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 25)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	completed, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedBy)
	assert.Equal(t, "counter-1", *completed.CompletedBy)

	// Levels are set to the counted values, not incremented.
	assert.Equal(t, types.NewQuantityFromFloat64(7), f.onHand(f.colaID))
	assert.Equal(t, types.NewQuantityFromFloat64(25), f.onHand(f.milkID))

	require.Len(t, f.stock.movements, 2)
	assert.Equal(t, entity.MovementTypeAdjustment, f.stock.movements[0].MovementType)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), f.stock.movements[0].Delta)
	assert.Equal(t, types.NewQuantityFromFloat64(5), f.stock.movements[1].Delta)
	assert.Equal(t, doc.ID, f.stock.movements[0].ReferenceID)
}

func TestCompleteSkipsMovementForZeroDifference(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(10, 20) // matches recorded exactly
	require.NoError(t, f.svc.Create(testCtx(), doc))

	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	assert.Empty(t, f.stock.movements)
}

func TestCompleteOverwritesConcurrentDrift(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	// Stock moves between count and completion; the count wins anyway.
	f.setStock(f.colaID, 42)

	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(7), f.onHand(f.colaID))
}

func TestCompleteTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(testCtx(), doc.ID)
	assert.True(t, apperror.IsConflict(err))

	// Adjustment movements recorded exactly once.
	assert.Len(t, f.stock.movements, 1)
}

func TestUpdateDraftReplacesLines(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	updated, err := f.svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	updated.Lines = []Line{
		{ProductID: f.milkID, ActualStock: types.NewQuantityFromFloat64(18)},
	}
	require.NoError(t, f.svc.Update(testCtx(), updated))

	stored, err := f.svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, f.milkID, stored.Lines[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(20), stored.Lines[0].RecordedStock)
	assert.Equal(t, types.NewQuantityFromFloat64(-2), stored.Lines[0].Difference)
}

func TestUpdateCompletedConflicts(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	updated, err := f.svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	updated.Lines[0].ActualStock = types.NewQuantityFromFloat64(99)

	assert.True(t, apperror.IsConflict(f.svc.Update(testCtx(), updated)))
}

func TestCancelDraft(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	cancelled, err := f.svc.Cancel(testCtx(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	// No stock effect.
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand(f.colaID))
	assert.Empty(t, f.stock.movements)
}

func TestCancelCompletedConflicts(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(testCtx(), doc.ID)
	assert.True(t, apperror.IsConflict(err))
}

func TestCancelDeletedConflicts(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))

	_, err := f.svc.Cancel(testCtx(), doc.ID)
	assert.True(t, apperror.IsConflict(err))

	stored, getErr := f.svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusDraft, stored.Status, "deleted draft keeps its status")
}

func TestDeleteCompletedKeepsStock(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(7), f.onHand(f.colaID))

	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))

	// Soft delete never reverses a completed count.
	assert.Equal(t, types.NewQuantityFromFloat64(7), f.onHand(f.colaID))

	require.NoError(t, f.svc.Restore(testCtx(), doc.ID))
	assert.Equal(t, types.NewQuantityFromFloat64(7), f.onHand(f.colaID))
}

func TestAuditTrailCoversLifecycle(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc(7, 20)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Complete(testCtx(), doc.ID)
	require.NoError(t, err)

	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, audit.ActionCreate, f.auditRepo.entries[0].Action)
	assert.Equal(t, audit.ActionComplete, f.auditRepo.entries[1].Action)
}
