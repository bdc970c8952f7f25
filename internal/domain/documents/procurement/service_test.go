package procurement

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
	"gudang/internal/domain/policy"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs map[id.ID]*Procurement
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[id.ID]*Procurement)}
}

func (f *fakeRepo) Create(_ context.Context, doc *Procurement) error {
	clone := *doc
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Procurement, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound(EntityType, docID.String())
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*Procurement, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound(EntityType, number)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Procurement, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeRepo) Update(_ context.Context, doc *Procurement) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound(EntityType, doc.ID.String())
	}
	clone := *doc
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Procurement], error) {
	result := domain.ListResult[*Procurement]{}
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

// fakeConverter applies a fixed rate for one directed pair and
// identity otherwise.
type fakeConverter struct {
	from, to id.ID
	rate     types.Rate
}

func (f fakeConverter) ConvertQuantity(_ context.Context, qty types.Quantity, fromUomID, toUomID id.ID) (types.Quantity, error) {
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
	auditRepo *fakeAuditRepo
	converter *fakeConverter

	productID  id.ID
	locationID id.ID
	baseUomID  id.ID
	boxUomID   id.ID
}

func newFixture(t *testing.T, engine *policy.Engine) *fixture {
	t.Helper()

	f := &fixture{
		repo:       newFakeRepo(),
		stock:      newFakeStock(),
		auditRepo:  &fakeAuditRepo{},
		productID:  id.New(),
		locationID: id.New(),
		baseUomID:  id.New(),
		boxUomID:   id.New(),
	}

	products := &fakeProducts{byID: map[id.ID]*product.Product{
		f.productID: product.NewProduct("PRD-00001", "Cola", f.baseUomID),
	}}
	f.converter = &fakeConverter{from: f.boxUomID, to: f.baseUomID, rate: decimal.NewFromInt(12)}

	var checker PolicyChecker
	if engine != nil {
		checker = engine
	}

	f.svc = NewService(
		f.repo,
		f.stock,
		products,
		fakeChecker{ok: true},
		fakeChecker{ok: true},
		f.converter,
		audit.NewService(f.auditRepo),
		checker,
		&numerator.MockGenerator{},
		fakeTxManager{},
	)
	return f
}

func (f *fixture) newDoc(qty float64) *Procurement {
	doc := NewProcurement(f.productID, f.locationID, f.baseUomID, types.NewQuantityFromFloat64(qty))
	doc.Supplier = "PT Sumber Makmur"
	return doc
}

func (f *fixture) onHand() types.Quantity {
	return f.stock.levels[pairKey{f.productID, f.locationID}]
}

func testCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "manager-1"})
}

func TestCreateStartsPending(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)

	require.NoError(t, f.svc.Create(testCtx(), doc))

	assert.Equal(t, documents.StatusPending, doc.Status)
	assert.Equal(t, "MOCK-2026-00001", doc.Number)
	assert.Equal(t, "manager-1", doc.CreatedBy)
	assert.True(t, f.onHand().IsZero(), "create must not touch stock")

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, audit.ActionCreate, f.auditRepo.entries[0].Action)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, nil)

	doc := f.newDoc(0)
	err := f.svc.Create(testCtx(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	doc = f.newDoc(5)
	doc.ProductID = id.New() // unknown product
	assert.True(t, apperror.IsNotFound(f.svc.Create(testCtx(), doc)))
}

func TestApproveAddsStock(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	approved, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, documents.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "manager-1", *approved.ApprovedBy)
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand())

	require.Len(t, f.stock.movements, 1)
	m := f.stock.movements[0]
	assert.Equal(t, entity.MovementTypeProcurement, m.MovementType)
	assert.Equal(t, types.NewQuantityFromFloat64(10), m.Delta)
	assert.Equal(t, EntityType, m.ReferenceType)
	assert.Equal(t, doc.ID, m.ReferenceID)
}

func TestApproveConvertsToBaseUom(t *testing.T) {
	f := newFixture(t, nil)
	doc := NewProcurement(f.productID, f.locationID, f.boxUomID, types.NewQuantityFromFloat64(3))
	require.NoError(t, f.svc.Create(testCtx(), doc))

	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	// 3 boxes * 12 pieces/box
	assert.Equal(t, types.NewQuantityFromFloat64(36), f.onHand())
}

func TestApproveTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(testCtx(), doc.ID)
	assert.True(t, apperror.IsConflict(err))

	// Effect applied exactly once.
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand())
	assert.Len(t, f.stock.movements, 1)
}

func TestApproveMissingConversionAborts(t *testing.T) {
	f := newFixture(t, nil)
	unknownUom := id.New()
	doc := NewProcurement(f.productID, f.locationID, unknownUom, types.NewQuantityFromFloat64(2))
	doc.Number = "PRC-2026-00007"
	clone := *doc
	f.repo.docs[doc.ID] = &clone

	_, err := f.svc.Approve(testCtx(), doc.ID)
	assert.True(t, apperror.IsNotFound(err))

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, documents.StatusPending, stored.Status)
	assert.True(t, f.onHand().IsZero())
}

func TestApproveBlockedByPolicy(t *testing.T) {
	engine, err := policy.NewEngine([]policy.Rule{
		{Name: "max-quantity", Expression: "quantity <= 100.0"},
	})
	require.NoError(t, err)

	f := newFixture(t, engine)
	doc := f.newDoc(500)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	_, err = f.svc.Approve(testCtx(), doc.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePolicyViolation, appErr.Code)

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, documents.StatusPending, stored.Status)
	assert.True(t, f.onHand().IsZero())
}

func TestRejectPendingLeavesStockAlone(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	rejected, err := f.svc.Reject(testCtx(), doc.ID, "wrong supplier")
	require.NoError(t, err)

	assert.Equal(t, documents.StatusRejected, rejected.Status)
	assert.Equal(t, "wrong supplier", rejected.RejectReason)
	assert.True(t, f.onHand().IsZero())
	assert.Empty(t, f.stock.movements)
}

func TestRejectApprovedReversesWithoutMovement(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(10), f.onHand())

	_, err = f.svc.Reject(testCtx(), doc.ID, "audit finding")
	require.NoError(t, err)

	assert.True(t, f.onHand().IsZero())
	// The original receipt movement stays; no reversal movement appears.
	assert.Len(t, f.stock.movements, 1)
}

func TestRejectTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	_, err := f.svc.Reject(testCtx(), doc.ID, "first")
	require.NoError(t, err)

	_, err = f.svc.Reject(testCtx(), doc.ID, "second")
	assert.True(t, apperror.IsConflict(err))
}

func TestRejectReversalCannotDriveStockNegative(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	// Someone else consumed part of the received stock.
	require.NoError(t, f.stock.Set(context.Background(), f.productID, f.locationID, types.NewQuantityFromFloat64(4)))

	_, err = f.svc.Reject(testCtx(), doc.ID, "late reversal")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRejectDeletedApprovedConflicts(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.stock.Set(context.Background(), f.productID, f.locationID, types.NewQuantityFromFloat64(100)))

	doc := f.newDoc(30)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(130), f.onHand())

	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))
	require.Equal(t, types.NewQuantityFromFloat64(100), f.onHand(), "delete reverses the receipt")

	_, err = f.svc.Reject(testCtx(), doc.ID, "stale")
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, types.NewQuantityFromFloat64(100), f.onHand(), "effect is reversed once, not twice")
}

func TestRejectReversesQuantityAppliedAtApproval(t *testing.T) {
	f := newFixture(t, nil)
	doc := NewProcurement(f.productID, f.locationID, f.boxUomID, types.NewQuantityFromFloat64(3))
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(36), f.onHand())

	stored, getErr := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, types.NewQuantityFromFloat64(36), stored.AppliedQty)

	// The box is repacked to 10 pieces between approval and rejection.
	f.converter.rate = decimal.NewFromInt(10)

	_, err = f.svc.Reject(testCtx(), doc.ID, "returned to supplier")
	require.NoError(t, err)
	assert.True(t, f.onHand().IsZero(), "reversal subtracts exactly what approval added")

	stored, getErr = f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.True(t, stored.AppliedQty.IsZero())
}

func TestUpdatePendingChangesFreely(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	updated := *doc
	updated.Quantity = types.NewQuantityFromFloat64(15)
	updated.Supplier = "CV Maju Jaya"
	require.NoError(t, f.svc.Update(testCtx(), &updated))

	stored, err := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(15), stored.Quantity)
	assert.Equal(t, doc.Number, stored.Number, "number is not updatable")
	assert.True(t, f.onHand().IsZero())
}

func TestUpdateApprovedReappliesEffect(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromFloat64(10), f.onHand())

	updated, err := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	updated.Quantity = types.NewQuantityFromFloat64(25)
	require.NoError(t, f.svc.Update(testCtx(), updated))

	assert.Equal(t, types.NewQuantityFromFloat64(25), f.onHand())
	// One movement from approval, one from the re-application.
	require.Len(t, f.stock.movements, 2)
	assert.Equal(t, types.NewQuantityFromFloat64(25), f.stock.movements[1].Delta)
}

func TestUpdateCannotEscalateStatus(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	updated := *doc
	updated.Status = documents.StatusApproved
	require.NoError(t, f.svc.Update(testCtx(), &updated))

	stored, err := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusPending, stored.Status)
	assert.True(t, f.onHand().IsZero())
}

func TestDeleteApprovedReversesAndRestoreReapplies(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))
	_, err := f.svc.Approve(testCtx(), doc.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))
	assert.True(t, f.onHand().IsZero())

	stored, err := f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.DeletionMark)
	assert.Equal(t, documents.StatusApproved, stored.Status, "delete keeps the status")

	require.NoError(t, f.svc.Restore(testCtx(), doc.ID))
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.onHand())

	stored, err = f.repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, stored.DeletionMark)
}

func TestDeleteTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.newDoc(10)
	require.NoError(t, f.svc.Create(testCtx(), doc))

	require.NoError(t, f.svc.Delete(testCtx(), doc.ID))
	assert.True(t, apperror.IsConflict(f.svc.Delete(testCtx(), doc.ID)))
}
