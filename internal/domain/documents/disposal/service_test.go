package disposal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
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
	"gudang/internal/domain/catalogs/product"
	"gudang/internal/domain/documents"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs map[id.ID]*Disposal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[id.ID]*Disposal)}
}

func (f *fakeRepo) Create(_ context.Context, doc *Disposal) error {
	clone := *doc
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Disposal, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound(EntityType, docID.String())
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*Disposal, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound(EntityType, number)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Disposal, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeRepo) Update(_ context.Context, doc *Disposal) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound(EntityType, doc.ID.String())
	}
	clone := *doc
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Disposal], error) {
	result := domain.ListResult[*Disposal]{}
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

type fakeProducts struct {
	byID map[id.ID]*product.Product
}

func (f *fakeProducts) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := f.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

type fakeChecker struct{ ok bool }

func (f fakeChecker) Exists(context.Context, id.ID) (bool, error) { return f.ok, nil }

type identityConverter struct{}

func (identityConverter) ConvertQuantity(_ context.Context, qty types.Quantity, _, _ id.ID) (types.Quantity, error) {
	return qty, nil
}

// fakeConverter applies a mutable rate for one directed pair and
// identity otherwise.
type fakeConverter struct {
	from, to id.ID
	rate     types.Rate
}

func (f *fakeConverter) ConvertQuantity(_ context.Context, qty types.Quantity, fromUomID, toUomID id.ID) (types.Quantity, error) {
	if fromUomID == toUomID {
		return qty, nil
	}
	if fromUomID == f.from && toUomID == f.to {
		return qty.MulRate(f.rate), nil
	}
	return 0, apperror.NewNotFound("uom conversion", fromUomID.String())
}

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
	products  *fakeProducts
	auditRepo *fakeAuditRepo

	productID  id.ID
	locationID id.ID
	baseUomID  id.ID
}

func newFixture(t *testing.T, onHand float64) *fixture {
	t.Helper()

	f := &fixture{
		repo:       newFakeRepo(),
		stock:      newFakeStock(),
		auditRepo:  &fakeAuditRepo{},
		productID:  id.New(),
		locationID: id.New(),
		baseUomID:  id.New(),
	}
	f.stock.levels[pairKey{f.productID, f.locationID}] = types.NewQuantityFromFloat64(onHand)

	f.products = &fakeProducts{byID: map[id.ID]*product.Product{
		f.productID: product.NewProduct("PRD-00001", "Milk 1L", f.baseUomID),
	}}

	f.svc = NewService(
		f.repo,
		f.stock,
		f.products,
		fakeChecker{ok: true},
		fakeChecker{ok: true},
		identityConverter{},
		audit.NewService(f.auditRepo),
		nil,
		&numerator.MockGenerator{},
		fakeTxManager{},
	)
	return f
}

func (f *fixture) newDoc(qty float64) *Disposal {
	return NewDisposal(f.productID, f.locationID, f.baseUomID,
		types.NewQuantityFromFloat64(qty), "expired")
}

func (f *fixture) onHand() types.Quantity {
	return f.stock.levels[pairKey{f.productID, f.locationID}]
}

func testCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "manager-1"})
}

func TestCreateChecksStockAdvisorily(t *testing.T) {
	f := newFixture(t, 5)

	err := f.svc.Create(testCtx(), f.newDoc(10))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	require.NoError(t, f.svc.Create(testCtx(), f.newDoc(5)))
	// Advisory only: stock is untouched until approval.
	assert.Equal(t, types.NewQuantityFromFloat64(5), f.onHand())
}

func TestCreateRequiresReason(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(2)
	doc.Reason = ""

	err := f.svc.Create(testCtx(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApproveRemovesStock(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(4)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	approved, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, documents.StatusApproved, approved.Status)
	assert.Equal(t, types.NewQuantityFromFloat64(6), f.onHand())

	require.Len(t, f.stock.movements, 1)
	m := f.stock.movements[0]
	assert.Equal(t, entity.MovementTypeDisposal, m.MovementType)
	assert.Equal(t, types.NewQuantityFromFloat64(-4), m.Delta)
}

func TestApproveInsufficientStaysPending(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(8)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	// Stock shrank between create and approve.
	require.NoError(t, f.stock.Set(context.Background(), f.productID, f.locationID, types.NewQuantityFromFloat64(3)))

	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, documents.StatusPending, stored.Status)
	assert.Equal(t, types.NewQuantityFromFloat64(3), f.onHand())
	assert.Empty(t, f.stock.movements)
}

func TestRejectApprovedAddsStockBack(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(4)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(6), f.onHand())

	_, err = f.svc.Reject(testCtx(), doc.ID, "counted wrong")
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand())
	// Original disposal movement stays; no reversal movement.
	assert.Len(t, f.stock.movements, 1)
}

func TestRejectDeletedApprovedConflicts(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(3)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(7), f.onHand())

	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))
	require.Equal(t, types.NewQuantityFromFloat64(10), f.onHand(), "delete adds the stock back")

	_, err = f.svc.Reject(testCtx(), doc.ID, "stale")
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand(), "stock is returned once, not twice")
}

func TestRejectRestoresQuantityAppliedAtApproval(t *testing.T) {
	f := newFixture(t, 100)
	boxUomID := id.New()
	conv := &fakeConverter{from: boxUomID, to: f.baseUomID, rate: decimal.NewFromInt(12)}
	svc := NewService(
		f.repo,
		f.stock,
		f.products,
		fakeChecker{ok: true},
		fakeChecker{ok: true},
		conv,
		audit.NewService(f.auditRepo),
		nil,
		&numerator.MockGenerator{},
		fakeTxManager{},
	)

	doc := NewDisposal(f.productID, f.locationID, boxUomID,
		types.NewQuantityFromFloat64(3), "expired")
	require.NoError(t, svc.Create(testCtx(), doc))
	_, err := svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(64), f.onHand())

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, types.NewQuantityFromFloat64(36), stored.AppliedQty)

	// The box is repacked to 10 pieces between approval and rejection.
	conv.rate = decimal.NewFromInt(10)

	_, err = svc.Reject(testCtx(), doc.ID, "counted wrong")
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(100), f.onHand(), "reversal restores exactly what approval removed")

	stored, getErr = f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.True(t, stored.AppliedQty.IsZero())
}

func TestUpdateApprovedRechecksSufficiency(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(4)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(6), f.onHand())

	// Raising 4 -> 8 works: reversal brings stock to 10, 8 is available.
	updated, err := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	updated.Quantity = types.NewQuantityFromFloat64(8)
	require.NoError(t, f.svc.Update(testCtx(), updated))
	assert.Equal(t, types.NewQuantityFromFloat64(2), f.onHand())

	// Raising 8 -> 20 fails: only 10 available after reversal.
	updated, err = f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	updated.Quantity = types.NewQuantityFromFloat64(20)
	err = f.svc.Update(testCtx(), updated)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, types.NewQuantityFromFloat64(8), stored.Quantity, "old document stands")
}

func TestRestoreInsufficientStaysDeleted(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(6)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))
	require.Equal(t, types.NewQuantityFromFloat64(10), f.onHand(), "delete adds the stock back")

	// The returned stock got consumed elsewhere.
	require.NoError(t, f.stock.Set(context.Background(), f.productID, f.locationID, types.NewQuantityFromFloat64(2)))

	err = f.svc.Restore(testCtx(), doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.True(t, stored.DeletionMark, "failed restore leaves the document deleted")
	assert.Equal(t, types.NewQuantityFromFloat64(2), f.onHand())
}

func TestRestoreReappliesEffect(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(6)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))

	require.NoError(t, f.svc.Restore(testCtx(), doc.ID))

	assert.Equal(t, types.NewQuantityFromFloat64(4), f.onHand())
	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.False(t, stored.DeletionMark)
}

func TestAuditTrailCoversTransitions(t *testing.T) {
	f := newFixture(t, 10)
	doc := f.newDoc(4)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	_, err = f.svc.Reject(testCtx(), doc.ID, "shrinkage recount")
	require.NoError(t, err)

	require.Len(t, f.auditRepo.entries, 3)
	assert.Equal(t, audit.ActionCreate, f.auditRepo.entries[0].Action)
	assert.Equal(t, audit.ActionApprove, f.auditRepo.entries[1].Action)
	assert.Equal(t, audit.ActionReject, f.auditRepo.entries[2].Action)
	assert.Equal(t, "manager-1", f.auditRepo.entries[1].Actor)
}
