package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gudang/internal/core/id"
	"gudang/internal/domain"
	"gudang/internal/domain/documents/opname"
	"gudang/internal/infrastructure/storage/postgres"
)

const (
	opnamesTable     = "doc_stock_opnames"
	opnameLinesTable = "doc_stock_opname_lines"
)

// OpnameRepo implements opname.Repository.
type OpnameRepo struct {
	*BaseDocumentRepo[*opname.StockOpname]
}

// NewOpnameRepo creates a new stock opname repository.
func NewOpnameRepo(txManager *postgres.TxManager) *OpnameRepo {
	return &OpnameRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			opnamesTable,
			postgres.ExtractDBColumns[opname.StockOpname](),
			func() *opname.StockOpname { return &opname.StockOpname{} },
		),
	}
}

// GetLines retrieves lines for an opname document.
func (r *OpnameRepo) GetLines(ctx context.Context, docID id.ID) ([]opname.Line, error) {
	q := r.Builder().
		Select("line_no", "product_id", "recorded_stock", "actual_stock", "difference").
		From(opnameLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []opname.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces lines for an opname document (delete existing + insert new).
func (r *OpnameRepo) SaveLines(ctx context.Context, docID id.ID, lines []opname.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + opnameLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(opnameLinesTable).
		Columns("document_id", "line_no", "product_id", "recorded_stock", "actual_stock", "difference")

	for _, line := range lines {
		q = q.Values(docID, line.LineNo, line.ProductID, line.RecordedStock, line.ActualStock, line.Difference)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves opname documents with filtering.
func (r *OpnameRepo) List(ctx context.Context, filter opname.ListFilter) (domain.ListResult[*opname.StockOpname], error) {
	result := domain.ListResult[*opname.StockOpname]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
