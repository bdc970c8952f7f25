package uom

import (
	"context"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/numerator"
	"gudang/internal/core/tx"
	"gudang/internal/domain"
)

// Service provides business logic for the Uom catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Uom]
	repo Repository
}

// NewService creates a new Uom service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Uom]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "uom",
		CodePrefix: "UOM",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkSymbolUnique)
	base.Hooks().OnBeforeUpdate(svc.checkSymbolUnique)

	return svc
}

// checkSymbolUnique rejects duplicate symbols.
func (s *Service) checkSymbolUnique(ctx context.Context, u *Uom) error {
	if u.Symbol == "" {
		return nil
	}
	if exists, _ := s.symbolExists(ctx, u.Symbol, u.ID); exists {
		return apperror.NewConflict("uom with this symbol already exists").
			WithDetail("symbol", u.Symbol)
	}
	return nil
}

// FindBySymbol retrieves uom by symbol.
func (s *Service) FindBySymbol(ctx context.Context, symbol string) (*Uom, error) {
	return s.repo.FindBySymbol(ctx, symbol)
}

func (s *Service) symbolExists(ctx context.Context, symbol string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindBySymbol(ctx, symbol)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
