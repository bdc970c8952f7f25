package uomconversion

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain"
)

// --- test doubles ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUomChecker struct {
	known map[id.ID]bool
}

func (f *fakeUomChecker) Exists(_ context.Context, uomID id.ID) (bool, error) {
	return f.known[uomID], nil
}

type fakeRuleRepo struct {
	rules map[id.ID]*Rule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[id.ID]*Rule)}
}

func (f *fakeRuleRepo) Create(_ context.Context, rule *Rule) error {
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepo) GetByID(_ context.Context, ruleID id.ID) (*Rule, error) {
	rule, ok := f.rules[ruleID]
	if !ok {
		return nil, apperror.NewNotFound("uom conversion", ruleID.String())
	}
	return rule, nil
}

func (f *fakeRuleRepo) Update(_ context.Context, rule *Rule) error {
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepo) SetDeletionMark(_ context.Context, ruleID id.ID, marked bool) error {
	rule, ok := f.rules[ruleID]
	if !ok {
		return apperror.NewNotFound("uom conversion", ruleID.String())
	}
	rule.DeletionMark = marked
	return nil
}

func (f *fakeRuleRepo) FindByPair(_ context.Context, fromUomID, toUomID id.ID) (*Rule, error) {
	for _, rule := range f.rules {
		if !rule.DeletionMark && rule.FromUomID == fromUomID && rule.ToUomID == toUomID {
			return rule, nil
		}
	}
	return nil, apperror.NewNotFound("uom conversion", fromUomID.String())
}

func (f *fakeRuleRepo) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*Rule], error) {
	out := domain.ListResult[*Rule]{Limit: filter.Limit, Offset: filter.Offset}
	for _, rule := range f.rules {
		out.Items = append(out.Items, rule)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func newTestService(knownUoms ...id.ID) (*Service, *fakeRuleRepo) {
	repo := newFakeRuleRepo()
	checker := &fakeUomChecker{known: make(map[id.ID]bool)}
	for _, u := range knownUoms {
		checker.known[u] = true
	}
	return NewService(repo, checker, fakeTxManager{}), repo
}

// --- tests ---

func TestResolveIdentity(t *testing.T) {
	piece := id.New()
	svc, _ := newTestService(piece)

	rate, err := svc.Resolve(context.Background(), piece, piece)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestResolveDirectAndInverse(t *testing.T) {
	box := id.New()
	piece := id.New()
	svc, _ := newTestService(box, piece)

	// 1 box = 12 pieces
	require.NoError(t, svc.Create(context.Background(), NewRule(box, piece, decimal.NewFromInt(12))))

	direct, err := svc.Resolve(context.Background(), box, piece)
	require.NoError(t, err)
	assert.True(t, direct.Equal(decimal.NewFromInt(12)))

	inverse, err := svc.Resolve(context.Background(), piece, box)
	require.NoError(t, err)
	assert.True(t, inverse.Mul(decimal.NewFromInt(12)).Round(6).Equal(decimal.NewFromInt(1)),
		"inverse rate should be 1/12, got %s", inverse)
}

func TestResolveDoesNotChainConversions(t *testing.T) {
	piece := id.New()
	box := id.New()
	pallet := id.New()
	svc, _ := newTestService(piece, box, pallet)

	require.NoError(t, svc.Create(context.Background(), NewRule(box, piece, decimal.NewFromInt(12))))
	require.NoError(t, svc.Create(context.Background(), NewRule(pallet, box, decimal.NewFromInt(40))))

	// pallet -> piece would require composing two edges; must not resolve
	_, err := svc.Resolve(context.Background(), pallet, piece)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolveMissingRule(t *testing.T) {
	a := id.New()
	b := id.New()
	svc, _ := newTestService(a, b)

	_, err := svc.Resolve(context.Background(), a, b)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestConvertQuantity(t *testing.T) {
	box := id.New()
	piece := id.New()
	svc, _ := newTestService(box, piece)
	require.NoError(t, svc.Create(context.Background(), NewRule(box, piece, decimal.NewFromInt(12))))

	tests := []struct {
		name string
		qty  types.Quantity
		from id.ID
		to   id.ID
		want types.Quantity
	}{
		{"direct", types.NewQuantityFromFloat64(3), box, piece, types.NewQuantityFromFloat64(36)},
		{"inverse", types.NewQuantityFromFloat64(24), piece, box, types.NewQuantityFromFloat64(2)},
		{"identity", types.NewQuantityFromFloat64(7.5), piece, piece, types.NewQuantityFromFloat64(7.5)},
		{"zero", 0, box, piece, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ConvertQuantity(context.Background(), tt.qty, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertQuantityRejectsNegative(t *testing.T) {
	piece := id.New()
	svc, _ := newTestService(piece)

	_, err := svc.ConvertQuantity(context.Background(), types.NewQuantityFromFloat64(-1), piece, piece)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateValidation(t *testing.T) {
	a := id.New()
	b := id.New()
	svc, _ := newTestService(a, b)

	tests := []struct {
		name     string
		rule     *Rule
		wantCode string
	}{
		{"self edge", NewRule(a, a, decimal.NewFromInt(2)), apperror.CodeValidation},
		{"zero rate", NewRule(a, b, decimal.Zero), apperror.CodeValidation},
		{"negative rate", NewRule(a, b, decimal.NewFromInt(-3)), apperror.CodeValidation},
		{"unknown uom", NewRule(a, id.New(), decimal.NewFromInt(2)), apperror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.rule)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestCreateRejectsDuplicatePairEitherDirection(t *testing.T) {
	box := id.New()
	piece := id.New()
	svc, _ := newTestService(box, piece)
	require.NoError(t, svc.Create(context.Background(), NewRule(box, piece, decimal.NewFromInt(12))))

	// Same direction
	err := svc.Create(context.Background(), NewRule(box, piece, decimal.NewFromInt(10)))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	// Opposite direction counts as the same pair
	err = svc.Create(context.Background(), NewRule(piece, box, decimal.NewFromInt(10)))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}
