package stock

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/pkg/logger"
)

// ProductChecker verifies product existence; satisfied by product.Repository.
type ProductChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// LocationChecker verifies location existence; satisfied by location.Repository.
type LocationChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service is the stock accessor: all reads and writes of on-hand
// quantities go through it. Set uses SET semantics (not increments);
// the workflow engines compute the target value under a row lock.
type Service struct {
	repo      Repository
	products  ProductChecker
	locations LocationChecker
}

// NewService creates a new stock service.
func NewService(repo Repository, products ProductChecker, locations LocationChecker) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		locations: locations,
	}
}

// Get returns the on-hand quantity for the pair.
// An absent level row reads as zero.
func (s *Service) Get(ctx context.Context, productID, locationID id.ID) (types.Quantity, error) {
	if err := s.checkPair(ctx, productID, locationID); err != nil {
		return 0, err
	}

	level, err := s.repo.GetLevel(ctx, productID, locationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return level.Quantity, nil
}

// GetForUpdate returns the on-hand quantity with the level row locked.
// Must be called inside a transaction; absent rows read as zero
// (nothing is locked then, the subsequent upsert is still safe because
// workflow engines also hold the document row lock).
func (s *Service) GetForUpdate(ctx context.Context, productID, locationID id.ID) (types.Quantity, error) {
	if err := s.checkPair(ctx, productID, locationID); err != nil {
		return 0, err
	}

	level, err := s.repo.GetLevelForUpdate(ctx, productID, locationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return level.Quantity, nil
}

// Set overwrites the on-hand quantity for the pair.
// Negative quantities are rejected and never persisted.
func (s *Service) Set(ctx context.Context, productID, locationID id.ID, qty types.Quantity) error {
	if qty.IsNegative() {
		return apperror.NewValidation("stock quantity cannot be negative").
			WithDetail("product_id", productID.String()).
			WithDetail("location_id", locationID.String()).
			WithDetail("quantity", qty.String())
	}

	if err := s.checkPair(ctx, productID, locationID); err != nil {
		return err
	}

	logger.Debug(ctx, "set stock level",
		"product_id", productID.String(),
		"location_id", locationID.String(),
		"quantity", qty.String(),
	)

	return s.repo.UpsertLevel(ctx, entity.StockLevel{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   qty,
		UpdatedAt:  time.Now().UTC(),
	})
}

// RecordMovements appends movement records after validating them.
func (s *Service) RecordMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i := range movements {
		m := &movements[i]
		if m.Delta.IsZero() {
			return apperror.NewValidation("movement delta cannot be zero").
				WithDetail("movement_id", m.ID.String())
		}
		switch m.MovementType {
		case entity.MovementTypeProcurement, entity.MovementTypeDisposal, entity.MovementTypeAdjustment:
		default:
			return apperror.NewValidation("invalid movement type").
				WithDetail("movement_type", string(m.MovementType))
		}
		if id.IsNil(m.ReferenceID) || m.ReferenceType == "" {
			return apperror.NewValidation("movement reference is required").
				WithDetail("movement_id", m.ID.String())
		}
	}

	logger.Debug(ctx, "record stock movements", "count", len(movements))

	return s.repo.CreateMovements(ctx, movements)
}

// History retrieves movement records.
func (s *Service) History(ctx context.Context, filter MovementFilter) ([]entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListMovements(ctx, filter)
}

// Levels retrieves stock level rows.
func (s *Service) Levels(ctx context.Context, filter LevelFilter) ([]entity.StockLevel, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListLevels(ctx, filter)
}

// Turnover aggregates incoming/outgoing per pair over a period.
func (s *Service) Turnover(ctx context.Context, filter TurnoverFilter) ([]Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}

func (s *Service) checkPair(ctx context.Context, productID, locationID id.ID) error {
	if ok, err := s.products.Exists(ctx, productID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	if ok, err := s.locations.Exists(ctx, locationID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("location", locationID.String())
	}
	return nil
}
