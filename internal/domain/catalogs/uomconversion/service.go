package uomconversion

import (
	"context"

	"github.com/shopspring/decimal"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/tx"
	"gudang/internal/core/types"
	"gudang/internal/domain"
)

// UomChecker verifies UOM existence; satisfied by uom.Repository.
type UomChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service manages conversion rules and resolves conversion rates.
//
// Resolution is deliberately single-step: identity, the direct edge,
// or the inverse of the opposite edge. Two-step chains (piece -> box,
// box -> pallet) are never composed; the caller must define the
// missing edge explicitly.
type Service struct {
	repo      Repository
	uoms      UomChecker
	txManager tx.Manager
}

// NewService creates a new conversion service.
func NewService(repo Repository, uoms UomChecker, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		uoms:      uoms,
		txManager: txManager,
	}
}

// Create validates and stores a new conversion rule.
func (s *Service) Create(ctx context.Context, rule *Rule) error {
	if err := rule.Validate(ctx); err != nil {
		return err
	}

	if err := s.checkUomsExist(ctx, rule); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Either direction counts as the same pair.
		if err := s.checkPairFree(ctx, rule.FromUomID, rule.ToUomID, rule.ID); err != nil {
			return err
		}
		return s.repo.Create(ctx, rule)
	})
}

// Update validates and stores rule changes.
func (s *Service) Update(ctx context.Context, rule *Rule) error {
	if err := rule.Validate(ctx); err != nil {
		return err
	}

	if err := s.checkUomsExist(ctx, rule); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkPairFree(ctx, rule.FromUomID, rule.ToUomID, rule.ID); err != nil {
			return err
		}
		return s.repo.Update(ctx, rule)
	})
}

// GetByID retrieves rule by ID.
func (s *Service) GetByID(ctx context.Context, ruleID id.ID) (*Rule, error) {
	rule, err := s.repo.GetByID(ctx, ruleID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("uom conversion", ruleID.String())
		}
		return nil, err
	}
	return rule, nil
}

// Delete soft-deletes a rule.
func (s *Service) Delete(ctx context.Context, ruleID id.ID) error {
	if _, err := s.GetByID(ctx, ruleID); err != nil {
		return err
	}
	return s.repo.SetDeletionMark(ctx, ruleID, true)
}

// List retrieves rules with pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Rule], error) {
	return s.repo.List(ctx, filter)
}

// Resolve returns the rate converting a from-unit quantity into to-units.
//
// Order of precedence: identity (1), direct edge (rate), reverse edge (1/rate).
// A missing edge is a NotFoundError; multi-hop resolution is not attempted.
func (s *Service) Resolve(ctx context.Context, fromUomID, toUomID id.ID) (types.Rate, error) {
	if fromUomID == toUomID {
		return decimal.NewFromInt(1), nil
	}

	if rule, err := s.repo.FindByPair(ctx, fromUomID, toUomID); err == nil {
		return rule.Rate, nil
	} else if !apperror.IsNotFound(err) {
		return decimal.Zero, err
	}

	if rule, err := s.repo.FindByPair(ctx, toUomID, fromUomID); err == nil {
		return decimal.NewFromInt(1).Div(rule.Rate), nil
	} else if !apperror.IsNotFound(err) {
		return decimal.Zero, err
	}

	return decimal.Zero, apperror.NewNotFound("uom conversion", fromUomID.String()+" -> "+toUomID.String()).
		WithDetail("from_uom_id", fromUomID.String()).
		WithDetail("to_uom_id", toUomID.String())
}

// ConvertQuantity converts a quantity from one unit to another.
// Negative quantities are rejected.
func (s *Service) ConvertQuantity(ctx context.Context, qty types.Quantity, fromUomID, toUomID id.ID) (types.Quantity, error) {
	if qty.IsNegative() {
		return 0, apperror.NewValidation("quantity cannot be negative").
			WithDetail("quantity", qty.String())
	}

	rate, err := s.Resolve(ctx, fromUomID, toUomID)
	if err != nil {
		return 0, err
	}

	return qty.MulRate(rate), nil
}

func (s *Service) checkUomsExist(ctx context.Context, rule *Rule) error {
	if ok, err := s.uoms.Exists(ctx, rule.FromUomID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("uom", rule.FromUomID.String())
	}
	if ok, err := s.uoms.Exists(ctx, rule.ToUomID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("uom", rule.ToUomID.String())
	}
	return nil
}

func (s *Service) checkPairFree(ctx context.Context, fromID, toID, excludeID id.ID) error {
	for _, pair := range [][2]id.ID{{fromID, toID}, {toID, fromID}} {
		existing, err := s.repo.FindByPair(ctx, pair[0], pair[1])
		if err != nil {
			if apperror.IsNotFound(err) {
				continue
			}
			return err
		}
		if existing.ID != excludeID {
			return apperror.NewConflict("conversion rule for this uom pair already exists").
				WithDetail("from_uom_id", pair[0].String()).
				WithDetail("to_uom_id", pair[1].String())
		}
	}
	return nil
}
