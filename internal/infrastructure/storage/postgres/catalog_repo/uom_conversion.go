package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/catalogs/uomconversion"
	"gudang/internal/infrastructure/storage/postgres"
)

const uomConversionTable = "cat_uom_conversion"

// UomConversionRepo implements uomconversion.Repository.
// Conversion rules have no code/name, so this repo does not embed
// BaseCatalogRepo; queries are built directly.
type UomConversionRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewUomConversionRepo creates a new conversion rule repository.
func NewUomConversionRepo(txManager *postgres.TxManager) *UomConversionRepo {
	return &UomConversionRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[uomconversion.Rule](),
	}
}

func (r *UomConversionRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *UomConversionRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(uomConversionTable)
}

// Create inserts a new conversion rule.
func (r *UomConversionRepo) Create(ctx context.Context, rule *uomconversion.Rule) error {
	data := postgres.StructToMap(rule)

	q := r.builder().
		Insert(uomConversionTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert conversion rule: %w", err)
	}

	return nil
}

// GetByID retrieves rule by ID.
func (r *UomConversionRepo) GetByID(ctx context.Context, ruleID id.ID) (*uomconversion.Rule, error) {
	rule := &uomconversion.Rule{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": ruleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), rule, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("uom_conversion", ruleID.String())
		}
		return nil, fmt.Errorf("get conversion rule: %w", err)
	}

	return rule, nil
}

// Update modifies a rule with optimistic locking.
func (r *UomConversionRepo) Update(ctx context.Context, rule *uomconversion.Rule) error {
	data := postgres.StructToMap(rule)
	delete(data, "id")
	delete(data, "version")

	q := r.builder().
		Update(uomConversionTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rule.ID}).
		Where(squirrel.Eq{"version": rule.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update conversion rule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("uom_conversion", rule.ID)
	}

	return nil
}

// SetDeletionMark sets or clears the deletion mark.
func (r *UomConversionRepo) SetDeletionMark(ctx context.Context, ruleID id.ID, marked bool) error {
	q := r.builder().
		Update(uomConversionTable).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": ruleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set deletion mark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("uom_conversion", ruleID.String())
	}

	return nil
}

// FindByPair retrieves the rule for the exact ordered (from, to) pair.
func (r *UomConversionRepo) FindByPair(ctx context.Context, fromUomID, toUomID id.ID) (*uomconversion.Rule, error) {
	rule := &uomconversion.Rule{}

	q := r.baseSelect().
		Where(squirrel.Eq{"from_uom_id": fromUomID}).
		Where(squirrel.Eq{"to_uom_id": toUomID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), rule, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("uom_conversion", fmt.Sprintf("%s->%s", fromUomID, toUomID))
		}
		return nil, fmt.Errorf("find conversion rule: %w", err)
	}

	return rule, nil
}

// List retrieves rules with pagination.
func (r *UomConversionRepo) List(ctx context.Context, listFilter domain.ListFilter) (domain.ListResult[*uomconversion.Rule], error) {
	result := domain.ListResult[*uomconversion.Rule]{
		Limit:  listFilter.Limit,
		Offset: listFilter.Offset,
	}

	q := r.baseSelect()

	if !listFilter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if len(listFilter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": listFilter.IDs})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("id ASC")

	if listFilter.Limit > 0 {
		q = q.Limit(uint64(listFilter.Limit))
	}
	if listFilter.Offset > 0 {
		q = q.Offset(uint64(listFilter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list conversion rules: %w", err)
	}

	return result, nil
}
