package disposal

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
	"gudang/internal/domain/catalogs/product"
	"gudang/internal/domain/documents"
	"gudang/internal/domain/policy"
	"gudang/pkg/logger"
)

// StockAccessor is the stock register surface the workflow needs;
// satisfied by stock.Service.
type StockAccessor interface {
	Get(ctx context.Context, productID, locationID id.ID) (types.Quantity, error)
	GetForUpdate(ctx context.Context, productID, locationID id.ID) (types.Quantity, error)
	Set(ctx context.Context, productID, locationID id.ID, qty types.Quantity) error
	RecordMovements(ctx context.Context, movements []entity.StockMovement) error
}

// ProductReader loads products; satisfied by product.Service.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// LocationChecker verifies location existence; satisfied by location.Repository.
type LocationChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// UomChecker verifies UOM existence; satisfied by uom.Repository.
type UomChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Converter resolves quantities between units; satisfied by uomconversion.Service.
type Converter interface {
	ConvertQuantity(ctx context.Context, qty types.Quantity, fromUomID, toUomID id.ID) (types.Quantity, error)
}

// Auditor records the audit trail; satisfied by audit.Service.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, oldValues, newValues map[string]any, notes string) error
	RecordUpdate(ctx context.Context, entityType string, entityID id.ID, oldState, newState map[string]any) error
}

// PolicyChecker evaluates approval rules; satisfied by policy.Engine.
// A nil checker allows everything.
type PolicyChecker interface {
	Check(ctx context.Context, input policy.Input) error
}

// Service implements the disposal workflow: the mirror image of
// procurement with a subtractive stock effect. Sufficiency is checked
// advisorily at create and authoritatively under the row lock at every
// transition that removes stock.
type Service struct {
	repo      Repository
	stock     StockAccessor
	products  ProductReader
	locations LocationChecker
	uoms      UomChecker
	converter Converter
	auditor   Auditor
	policy    PolicyChecker
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new disposal service.
func NewService(
	repo Repository,
	stock StockAccessor,
	products ProductReader,
	locations LocationChecker,
	uoms UomChecker,
	converter Converter,
	auditor Auditor,
	policyChecker PolicyChecker,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		products:  products,
		locations: locations,
		uoms:      uoms,
		converter: converter,
		auditor:   auditor,
		policy:    policyChecker,
		numerator: gen,
		txManager: txManager,
	}
}

// Create stores a new pending disposal. No stock effect. Sufficiency
// is checked against the current level as an early warning; the
// authoritative check happens at approve under the row lock.
func (s *Service) Create(ctx context.Context, doc *Disposal) error {
	doc.Status = documents.StatusPending

	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, doc); err != nil {
		return err
	}

	baseQty, err := s.baseQuantity(ctx, doc)
	if err != nil {
		return err
	}
	available, err := s.stock.Get(ctx, doc.ProductID, doc.LocationID)
	if err != nil {
		return err
	}
	if available < baseQty {
		return apperror.NewInsufficientStock(
			doc.ProductID.String(), doc.LocationID.String(),
			baseQty.Float64(), available.Float64())
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DSP"), numerator.DefaultOptions(), doc.Date)
		if err != nil {
			return apperror.NewInternal(err)
		}
		doc.Number = number
	}

	doc.CreatedBy = appctx.GetUserID(ctx)
	doc.UpdatedBy = doc.CreatedBy

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return err
		}
		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionCreate,
			nil, audit.Snapshot(doc), "")
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "disposal created",
		"id", doc.ID.String(),
		"number", doc.Number,
	)
	return nil
}

// GetByID retrieves a disposal by ID.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Disposal, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(EntityType, docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// List retrieves disposals with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Disposal], error) {
	return s.repo.List(ctx, filter)
}

// Update modifies an editable disposal. For approved documents a
// change of product, location, uom or quantity reverses the old effect
// (adds the stock back) and re-applies the new one with a fresh
// sufficiency check; on failure the whole transaction aborts and the
// old effect stands.
func (s *Service) Update(ctx context.Context, updated *Disposal) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.lockDoc(ctx, updated.ID)
		if err != nil {
			return err
		}
		if current.DeletionMark {
			return apperror.NewConflict("cannot update deleted disposal")
		}
		if current.Status == documents.StatusRejected {
			return apperror.NewConflict("cannot update rejected disposal")
		}

		// Carry over the fields Update must not change.
		updated.Number = current.Number
		updated.Status = current.Status
		updated.ApprovedBy, updated.ApprovedAt = current.ApprovedBy, current.ApprovedAt
		updated.RejectedBy, updated.RejectedAt = current.RejectedBy, current.RejectedAt
		updated.RejectReason = current.RejectReason
		updated.AppliedQty = current.AppliedQty
		updated.DeletionMark = current.DeletionMark
		updated.CreatedAt, updated.CreatedBy = current.CreatedAt, current.CreatedBy
		updated.Version = current.Version

		if err := updated.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkRefs(ctx, updated); err != nil {
			return err
		}

		if current.IsApproved() && effectChanged(current, updated) {
			if err := s.reverseEffect(ctx, current); err != nil {
				return err
			}
			if err := s.applyEffect(ctx, updated, true); err != nil {
				return err
			}
		}

		updated.UpdatedBy = appctx.GetUserID(ctx)
		updated.Touch()
		if err := s.repo.Update(ctx, updated); err != nil {
			return err
		}

		return s.auditor.RecordUpdate(ctx, EntityType, updated.ID,
			audit.Snapshot(current), audit.Snapshot(updated))
	})
}

// Approve removes the stock and records a disposal movement. The
// sufficiency check here is authoritative: on shortage nothing is
// mutated and the document stays pending.
func (s *Service) Approve(ctx context.Context, docID id.ID) (*Disposal, error) {
	var doc *Disposal

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if doc.DeletionMark {
			return apperror.NewConflict("cannot approve deleted disposal")
		}
		oldState := audit.Snapshot(doc)

		if err := doc.Approve(appctx.GetUserID(ctx)); err != nil {
			return err
		}

		baseQty, err := s.baseQuantity(ctx, doc)
		if err != nil {
			return err
		}
		if err := s.checkPolicy(ctx, doc, baseQty); err != nil {
			return err
		}

		if err := s.applyEffect(ctx, doc, true); err != nil {
			return err
		}

		doc.UpdatedBy = appctx.GetUserID(ctx)
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionApprove,
			oldState, audit.Snapshot(doc), "")
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "disposal approved",
		"id", doc.ID.String(),
		"number", doc.Number,
	)
	return doc, nil
}

// Reject rejects a pending or approved disposal. Rejecting an approved
// disposal adds the stock back; no reversal movement is recorded.
func (s *Service) Reject(ctx context.Context, docID id.ID, reason string) (*Disposal, error) {
	var doc *Disposal

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if doc.DeletionMark {
			return apperror.NewConflict("cannot reject deleted disposal")
		}
		oldState := audit.Snapshot(doc)

		wasApproved := doc.IsApproved()
		if err := doc.Reject(appctx.GetUserID(ctx), reason); err != nil {
			return err
		}

		if wasApproved {
			if err := s.reverseEffect(ctx, doc); err != nil {
				return err
			}
		}

		doc.UpdatedBy = appctx.GetUserID(ctx)
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		return s.auditor.Record(ctx, EntityType, doc.ID, audit.ActionReject,
			oldState, audit.Snapshot(doc), reason)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "disposal rejected",
		"id", doc.ID.String(),
		"number", doc.Number,
	)
	return doc, nil
}

// Delete sets the deletion mark. Deleting an approved disposal adds
// the stock back; pending and rejected documents are metadata-only.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if doc.DeletionMark {
			return apperror.NewConflict("disposal already deleted")
		}
		oldState := audit.Snapshot(doc)

		if doc.IsApproved() {
			if err := s.reverseEffect(ctx, doc); err != nil {
				return err
			}
		}

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

// Restore clears the deletion mark. Restoring an approved disposal
// re-applies its effect with a fresh sufficiency check; on shortage
// the transaction aborts and the document stays deleted.
func (s *Service) Restore(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDoc(ctx, docID)
		if err != nil {
			return err
		}
		if !doc.DeletionMark {
			return apperror.NewConflict("disposal is not deleted")
		}
		oldState := audit.Snapshot(doc)

		if doc.IsApproved() {
			if err := s.applyEffect(ctx, doc, true); err != nil {
				return err
			}
		}

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

// baseQuantity converts the document quantity into the product's base unit.
func (s *Service) baseQuantity(ctx context.Context, doc *Disposal) (types.Quantity, error) {
	prod, err := s.products.GetByID(ctx, doc.ProductID)
	if err != nil {
		return 0, err
	}
	return s.converter.ConvertQuantity(ctx, doc.Quantity, doc.UomID, prod.BaseUomID)
}

// applyEffect removes the document's base quantity from stock after an
// authoritative sufficiency check under the row lock. The applied
// quantity is stored on the document so a later reversal adds back
// exactly this amount even if conversion rules change in between.
func (s *Service) applyEffect(ctx context.Context, doc *Disposal, recordMovement bool) error {
	baseQty, err := s.baseQuantity(ctx, doc)
	if err != nil {
		return err
	}

	current, err := s.stock.GetForUpdate(ctx, doc.ProductID, doc.LocationID)
	if err != nil {
		return err
	}
	if current < baseQty {
		return apperror.NewInsufficientStock(
			doc.ProductID.String(), doc.LocationID.String(),
			baseQty.Float64(), current.Float64())
	}
	if err := s.stock.Set(ctx, doc.ProductID, doc.LocationID, current-baseQty); err != nil {
		return err
	}
	doc.AppliedQty = baseQty

	if recordMovement {
		movement := entity.NewStockMovement(doc.ProductID, doc.LocationID,
			baseQty.Neg(), entity.MovementTypeDisposal, EntityType, doc.ID)
		return s.stock.RecordMovements(ctx, []entity.StockMovement{movement})
	}
	return nil
}

// reverseEffect adds the quantity stored at apply time back to stock,
// not a freshly converted one. No movement is recorded for reversals.
func (s *Service) reverseEffect(ctx context.Context, doc *Disposal) error {
	baseQty := doc.AppliedQty

	current, err := s.stock.GetForUpdate(ctx, doc.ProductID, doc.LocationID)
	if err != nil {
		return err
	}
	if err := s.stock.Set(ctx, doc.ProductID, doc.LocationID, current+baseQty); err != nil {
		return err
	}
	doc.AppliedQty = 0
	return nil
}

func (s *Service) checkPolicy(ctx context.Context, doc *Disposal, baseQty types.Quantity) error {
	if s.policy == nil {
		return nil
	}
	return s.policy.Check(ctx, policy.Input{
		Quantity:     baseQty.Float64(),
		DocumentType: EntityType,
		ProductID:    doc.ProductID.String(),
		LocationID:   doc.LocationID.String(),
	})
}

func (s *Service) checkRefs(ctx context.Context, doc *Disposal) error {
	if _, err := s.products.GetByID(ctx, doc.ProductID); err != nil {
		return err
	}
	if ok, err := s.locations.Exists(ctx, doc.LocationID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("location", doc.LocationID.String())
	}
	if ok, err := s.uoms.Exists(ctx, doc.UomID); err != nil {
		return err
	} else if !ok {
		return apperror.NewNotFound("uom", doc.UomID.String())
	}
	return nil
}

func (s *Service) lockDoc(ctx context.Context, docID id.ID) (*Disposal, error) {
	doc, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(EntityType, docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// effectChanged reports whether the update touches fields that change
// the stock effect of an approved document.
func effectChanged(oldDoc, newDoc *Disposal) bool {
	return oldDoc.ProductID != newDoc.ProductID ||
		oldDoc.LocationID != newDoc.LocationID ||
		oldDoc.UomID != newDoc.UomID ||
		oldDoc.Quantity != newDoc.Quantity
}
