package product

import (
	"context"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/numerator"
	"gudang/internal/core/tx"
	"gudang/internal/domain"
)

// UomChecker verifies UOM existence; satisfied by uom.Repository.
type UomChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
	uoms UomChecker
}

// NewService creates a new Product service.
func NewService(repo Repository, uoms UomChecker, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "product",
		CodePrefix: "PRD",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		uoms:           uoms,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare runs referential and uniqueness checks before create/update.
func (s *Service) prepare(ctx context.Context, p *Product) error {
	if ok, err := s.uoms.Exists(ctx, p.BaseUomID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("uom", p.BaseUomID.String())
	}

	if p.SKU != nil && *p.SKU != "" {
		if existing, err := s.repo.FindBySKU(ctx, *p.SKU); err == nil && existing.ID != p.ID {
			return apperror.NewDuplicate("product", "sku", *p.SKU)
		}
	}

	if p.Barcode != nil && *p.Barcode != "" {
		if existing, err := s.repo.FindByBarcode(ctx, *p.Barcode); err == nil && existing.ID != p.ID {
			return apperror.NewDuplicate("product", "barcode", *p.Barcode)
		}
	}

	return nil
}

// FindBySKU retrieves product by SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// FindByBarcode retrieves product by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

// BaseUomID returns the base unit for a product.
func (s *Service) BaseUomID(ctx context.Context, productID id.ID) (id.ID, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return id.Nil(), err
	}
	return p.BaseUomID, nil
}
