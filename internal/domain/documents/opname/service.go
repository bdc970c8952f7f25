package opname

import (
	"context"

	"gudang/internal/core/apperror"
	appctx "gudang/internal/core/context"
	"gudang/internal/core/entity"
	"gudang/internal/core/id"
	"gudang/internal/core/numerator"
	"gudang/internal/core/tx"
	"gudang/internal/core/types"
	"gudang/internal/domain"
	"gudang/internal/domain/audit"
	"gudang/pkg/logger"
)

// StockAccessor is the stock register surface the opname needs;
// satisfied by stock.Service.
type StockAccessor interface {
	Get(ctx context.Context, productID, locationID id.ID) (types.Quantity, error)
	GetForUpdate(ctx context.Context, productID, locationID id.ID) (types.Quantity, error)
	Set(ctx context.Context, productID, locationID id.ID, qty types.Quantity) error
	RecordMovements(ctx context.Context, movements []entity.StockMovement) error
}

// ProductChecker verifies product existence; satisfied by product.Repository.
type ProductChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// LocationChecker verifies location existence; satisfied by location.Repository.
type LocationChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Auditor records the audit trail; satisfied by audit.Service.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, oldValues, newValues map[string]any, notes string) error
	RecordUpdate(ctx context.Context, entityType string, entityID id.ID, oldState, newState map[string]any) error
}

// Service implements the stock opname workflow. Completing an opname
// overwrites stock levels with the counted quantities; concurrent
// drift between count and completion is deliberately lost, the count
// is authoritative.
type Service struct {
	repo      Repository
	stock     StockAccessor
	products  ProductChecker
	locations LocationChecker
	auditor   Auditor
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new opname service.
func NewService(
	repo Repository,
	stock StockAccessor,
	products ProductChecker,
	locations LocationChecker,
	auditor Auditor,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		products:  products,
		locations: locations,
		auditor:   auditor,
		numerator: gen,
		txManager: txManager,
	}
}

// Create stores a new draft opname. Each line's recorded stock is
// snapshotted from the register at this moment.
func (s *Service) Create(ctx context.Context, doc *StockOpname) error {
	doc.Status = StatusDraft

	if err := s.checkRefs(ctx, doc); err != nil {
		return err
	}
	if err := s.snapshotLines(ctx, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("OPN"), numerator.DefaultOptions(), doc.Date)
		if err != nil {
			return apperror.NewInternal(err)
		}
		doc.Number = number
	}

	doc.CreatedBy = appctx.GetUserID(ctx)
	doc.UpdatedBy = doc.CreatedBy

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return err
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return err
		}
		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionCreate,
			nil, audit.Snapshot(doc), "")
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "opname created",
		"id", doc.ID.String(),
		"number", doc.Number,
		"lines", len(doc.Lines),
	)
	return nil
}

// GetByID retrieves an opname with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*StockOpname, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(EntityType, docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

// List retrieves opnames with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOpname], error) {
	return s.repo.List(ctx, filter)
}

// Update replaces the header fields and lines of a draft opname.
// Lines are persisted delete-then-reinsert; recorded stock is
// re-snapshotted for every line. Completed and cancelled opnames
// cannot be updated.
func (s *Service) Update(ctx context.Context, updated *StockOpname) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.lockDoc(ctx, updated.ID)
		if err != nil {
			return err
		}
		if current.DeletionMark {
			return apperror.NewConflict("cannot update deleted opname")
		}
		if !current.IsEditable() {
			return apperror.NewConflict("opname already " + string(current.Status))
		}
		current.Lines, err = s.repo.GetLines(ctx, current.ID)
		if err != nil {
			return err
		}

		// Carry over the fields Update must not change.
		updated.Number = current.Number
		updated.Status = current.Status
		updated.CompletedBy, updated.CompletedAt = current.CompletedBy, current.CompletedAt
		updated.CancelledBy, updated.CancelledAt = current.CancelledBy, current.CancelledAt
		updated.DeletionMark = current.DeletionMark
		updated.CreatedAt, updated.CreatedBy = current.CreatedAt, current.CreatedBy
		updated.Version = current.Version

		if err := s.checkRefs(ctx, updated); err != nil {
			return err
		}
		if err := s.snapshotLines(ctx, updated); err != nil {
			return err
		}
		if err := updated.Validate(ctx); err != nil {
			return err
		}

		updated.UpdatedBy = appctx.GetUserID(ctx)
		updated.Touch()
		if err := s.repo.Update(ctx, updated); err != nil {
			return err
		}
		if err := s.repo.SaveLines(ctx, updated.ID, updated.Lines); err != nil {
			return err
		}

		return s.auditor.RecordUpdate(ctx, EntityType, updated.ID,
			audit.Snapshot(current), audit.Snapshot(updated))
	})
}

// Complete applies the count: every line's stock level is set directly
// to the counted quantity, and an adjustment movement is recorded for
// each non-zero difference. The transition is irreversible.
func (s *Service) Complete(ctx context.Context, docID id.ID) (*StockOpname, error) {
	var doc *StockOpname

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if doc.DeletionMark {
			return apperror.NewConflict("cannot complete deleted opname")
		}
		doc.Lines, err = s.repo.GetLines(ctx, doc.ID)
		if err != nil {
			return err
		}
		oldState := audit.Snapshot(doc)

		if err := doc.Complete(appctx.GetUserID(ctx)); err != nil {
			return err
		}

		movements := make([]entity.StockMovement, 0, len(doc.Lines))
		for _, line := range doc.Lines {
			// Lock the level row, then overwrite with the count.
			if _, err := s.stock.GetForUpdate(ctx, line.ProductID, doc.LocationID); err != nil {
				return err
			}
			if err := s.stock.Set(ctx, line.ProductID, doc.LocationID, line.ActualStock); err != nil {
				return err
			}
			if !line.Difference.IsZero() {
				movements = append(movements, entity.NewStockMovement(
					line.ProductID, doc.LocationID,
					line.Difference, entity.MovementTypeAdjustment,
					EntityType, doc.ID))
			}
		}
		if err := s.stock.RecordMovements(ctx, movements); err != nil {
			return err
		}

		doc.UpdatedBy = appctx.GetUserID(ctx)
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionComplete,
			oldState, audit.Snapshot(doc), "")
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "opname completed",
		"id", doc.ID.String(),
		"number", doc.Number,
		"lines", len(doc.Lines),
	)
	return doc, nil
}

// Cancel abandons a draft opname. No stock effect.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*StockOpname, error) {
	var doc *StockOpname

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if doc.DeletionMark {
			return apperror.NewConflict("cannot cancel deleted opname")
		}
		oldState := audit.Snapshot(doc)

		if err := doc.Cancel(appctx.GetUserID(ctx)); err != nil {
			return err
		}

		doc.UpdatedBy = appctx.GetUserID(ctx)
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionCancel,
			oldState, audit.Snapshot(doc), "")
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "opname cancelled",
		"id", doc.ID.String(),
		"number", doc.Number,
	)
	return doc, nil
}

// Delete sets the deletion mark. Never touches stock: a completed
// opname's adjustments are not reversed.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if doc.DeletionMark {
			return apperror.NewConflict("opname already deleted")
		}
		oldState := audit.Snapshot(doc)

		doc.MarkDeleted()
		doc.UpdatedBy = appctx.GetUserID(ctx)
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionDelete,
			oldState, audit.Snapshot(doc), "")
	})
}

// Restore clears the deletion mark. Metadata only.
func (s *Service) Restore(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if !doc.DeletionMark {
			return apperror.NewConflict("opname is not deleted")
		}
		oldState := audit.Snapshot(doc)

		doc.Undelete()
		doc.UpdatedBy = appctx.GetUserID(ctx)
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionRestore,
			oldState, audit.Snapshot(doc), "")
	})
}

// snapshotLines refreshes the recorded stock and difference of every
// line from the register, and renumbers lines sequentially.
func (s *Service) snapshotLines(ctx context.Context, doc *StockOpname) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("line product is required").
				WithDetail("lineNo", i+1)
		}
		if ok, err := s.products.Exists(ctx, line.ProductID); err != nil {
			return err
		} else if !ok {
			return apperror.NewNotFound("product", line.ProductID.String())
		}

		recorded, err := s.stock.Get(ctx, line.ProductID, doc.LocationID)
		if err != nil {
			return err
		}
		line.LineNo = i + 1
		line.RecordedStock = recorded
		line.Difference = line.ActualStock - recorded
	}
	return nil
}

func (s *Service) checkRefs(ctx context.Context, doc *StockOpname) error {
	if ok, err := s.locations.Exists(ctx, doc.LocationID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("location", doc.LocationID.String())
	}
	return nil
}

func (s *Service) lockDoc(ctx context.Context, docID id.ID) (*StockOpname, error) {
	doc, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(EntityType, docID.String())
		}
		return nil, err
	}
	return doc, nil
}
