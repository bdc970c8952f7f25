package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"gudang/internal/core/apperror"
	"gudang/internal/domain/catalogs/uom"
	"gudang/internal/infrastructure/storage/postgres"
)

const uomTable = "cat_uom"

// UomRepo implements uom.Repository.
type UomRepo struct {
	*BaseCatalogRepo[*uom.Uom]
}

// NewUomRepo creates a new uom repository.
func NewUomRepo(txManager *postgres.TxManager) *UomRepo {
	return &UomRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			uomTable,
			postgres.ExtractDBColumns[uom.Uom](),
			func() *uom.Uom { return &uom.Uom{} },
		),
	}
}

// FindBySymbol retrieves uom by symbol.
func (r *UomRepo) FindBySymbol(ctx context.Context, symbol string) (*uom.Uom, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"symbol": symbol}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("uom", symbol)
		}
		return nil, err
	}
	return item, nil
}
