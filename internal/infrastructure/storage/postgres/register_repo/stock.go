// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/domain/registers/stock"
	"gudang/internal/infrastructure/storage/postgres"
)

const (
	stockLevelsTable    = "reg_stock_levels"
	stockMovementsTable = "reg_stock_movements"
)

var movementCols = []string{
	"id", "product_id", "location_id", "delta",
	"movement_type", "reference_type", "reference_id",
	"notes", "created_at",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)

// GetLevel returns the level row for the pair.
func (r *StockRepo) GetLevel(ctx context.Context, productID, locationID id.ID) (entity.StockLevel, error) {
	var level entity.StockLevel

	q := r.builder.
		Select("product_id", "location_id", "quantity", "updated_at").
		From(stockLevelsTable).
		Where(squirrel.Eq{
			"product_id":  productID,
			"location_id": locationID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return level, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return level, apperror.NewNotFound("stock_level", productID.String()+"/"+locationID.String())
		}
		return level, fmt.Errorf("get level: %w", err)
	}

	return level, nil
}

// GetLevelForUpdate locks the level row. Must run inside a transaction.
func (r *StockRepo) GetLevelForUpdate(ctx context.Context, productID, locationID id.ID) (entity.StockLevel, error) {
	var level entity.StockLevel

	sql := `
		SELECT product_id, location_id, quantity, updated_at
		FROM reg_stock_levels
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &level, sql, productID, locationID); err != nil {
		if pgxscan.NotFound(err) {
			return level, apperror.NewNotFound("stock_level", productID.String()+"/"+locationID.String())
		}
		return level, fmt.Errorf("get level for update: %w", err)
	}

	return level, nil
}

// UpsertLevel inserts or overwrites the level row.
func (r *StockRepo) UpsertLevel(ctx context.Context, level entity.StockLevel) error {
	q := r.builder.
		Insert(stockLevelsTable).
		Columns("product_id", "location_id", "quantity", "updated_at").
		Values(level.ProductID, level.LocationID, level.Quantity, level.UpdatedAt).
		Suffix(`ON CONFLICT (product_id, location_id)
			DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert level: %w", err)
	}

	return nil
}

// ListLevels retrieves level rows with filtering.
func (r *StockRepo) ListLevels(ctx context.Context, filter stock.LevelFilter) ([]entity.StockLevel, error) {
	q := r.builder.
		Select("l.product_id", "l.location_id", "l.quantity", "l.updated_at").
		From(stockLevelsTable + " l")

	if filter.OnlyBelowMin {
		q = q.Join("cat_product p ON p.id = l.product_id").
			Where("p.min_stock > 0").
			Where("l.quantity < p.min_stock")
	}

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"l.product_id": *filter.ProductID})
	}

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"l.location_id": *filter.LocationID})
	}

	q = q.OrderBy("l.product_id", "l.location_id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var levels []entity.StockLevel
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &levels, sql, args...); err != nil {
		return nil, fmt.Errorf("select levels: %w", err)
	}

	return levels, nil
}

// CreateMovements appends movement records.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.ID, m.ProductID, m.LocationID, m.Delta,
				m.MovementType, m.ReferenceType, m.ReferenceID,
				m.Notes, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementCols, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: plain insert. Prefer calling CreateMovements within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(movementCols...)

	for _, m := range movements {
		q = q.Values(
			m.ID, m.ProductID, m.LocationID, m.Delta,
			m.MovementType, m.ReferenceType, m.ReferenceID,
			m.Notes, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// ListMovements retrieves movement history.
func (r *StockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.
		Select(movementCols...).
		From(stockMovementsTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	if filter.MovementType != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.MovementType})
	}

	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetTurnover aggregates incoming/outgoing quantities per pair.
func (r *StockRepo) GetTurnover(ctx context.Context, filter stock.TurnoverFilter) ([]stock.Turnover, error) {
	q := r.builder.
		Select(
			"product_id",
			"location_id",
			"COALESCE(SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END), 0) AS incoming",
			"COALESCE(SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END), 0) AS outgoing",
			"COALESCE(SUM(delta), 0) AS net",
		).
		From(stockMovementsTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}

	q = q.GroupBy("product_id", "location_id").
		OrderBy("product_id", "location_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var turnovers []stock.Turnover
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &turnovers, sql, args...); err != nil {
		return nil, fmt.Errorf("select turnover: %w", err)
	}

	return turnovers, nil
}
