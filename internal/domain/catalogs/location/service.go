package location

import (
	"gudang/internal/core/numerator"
	"gudang/internal/core/tx"
	"gudang/internal/domain"
)

// Service provides business logic for the Location catalog.
type Service struct {
	*domain.CatalogService[*Location]
	repo Repository
}

// NewService creates a new Location service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Location]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "location",
		CodePrefix: "LOC",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}
