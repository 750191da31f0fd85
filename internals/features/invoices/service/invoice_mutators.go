// file: internals/features/invoices/service/invoice_mutators.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/invoices/model"
	"classtrack_backend/internals/store"
)

// InvoiceMutators owns the invoice state transitions. The rendered artifact
// for a manually generated invoice is produced by the reconciliation job,
// not here; mutators only reserve the artifact path.
type InvoiceMutators struct {
	store       store.Store
	assetFolder string
	newID       func() string
}

func NewInvoiceMutators(st store.Store, assetFolder string) *InvoiceMutators {
	return &InvoiceMutators{store: st, assetFolder: assetFolder, newID: uuid.NewString}
}

// Generate bills every currently unbilled session of the class under a new
// invoice. The unbilled re-read at invocation time is what absorbs races with
// a concurrently running reconciliation pass.
func (m *InvoiceMutators) Generate(ctx context.Context, mctx authz.Context, classID string) (*model.InvoiceModel, error) {
	if err := authz.AssertAdminOrFinance(mctx.Auth); err != nil {
		return nil, err
	}
	sessions, err := m.store.Invoices().UnbilledSessions(ctx, classID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperr.Conflict("class has no unbilled sessions")
	}

	inv := &model.InvoiceModel{
		ID:      m.newID(),
		ClassID: classID,
	}
	inv.InvoicePath = invoiceArtifactKey(m.assetFolder, inv.ID)

	sessionIDs := make([]string, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}
	err = m.store.Atomic(ctx, func(s store.Store) error {
		if err := s.Invoices().Insert(ctx, inv); err != nil {
			return err
		}
		return s.Invoices().LinkSessions(ctx, inv.ID, sessionIDs)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ToggleApproved flips the approval flag. Approval may toggle freely before
// payment; once paid it is frozen.
func (m *InvoiceMutators) ToggleApproved(ctx context.Context, mctx authz.Context, id string) (*model.InvoiceModel, error) {
	if err := authz.AssertAdminOrFacilitator(mctx.Auth); err != nil {
		return nil, err
	}
	inv, err := m.store.Invoices().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("invoice not found")
		}
		return nil, err
	}
	if inv.Paid {
		return nil, apperr.Conflict("approval is frozen once an invoice is paid")
	}
	inv.Approved = !inv.Approved
	if err := m.store.Invoices().Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkPaid records the payment screenshot and flips paid. An invoice must be
// approved before it can be paid.
func (m *InvoiceMutators) MarkPaid(ctx context.Context, mctx authz.Context, id string, paymentScreenshot string) (*model.InvoiceModel, error) {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return nil, err
	}
	if paymentScreenshot == "" {
		return nil, apperr.Validation("payment_screenshot is required")
	}
	inv, err := m.store.Invoices().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("invoice not found")
		}
		return nil, err
	}
	if !inv.Approved {
		return nil, apperr.Conflict("invoice must be approved before it is marked paid")
	}
	inv.PaymentScreenshot = &paymentScreenshot
	inv.Paid = true
	if err := m.store.Invoices().Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (m *InvoiceMutators) Delete(ctx context.Context, mctx authz.Context, id string) error {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return err
	}
	if err := m.store.Invoices().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("invoice not found")
		}
		return err
	}
	return nil
}
