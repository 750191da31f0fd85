// file: internals/features/invoices/service/reconciler.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"classtrack_backend/internals/features/invoices/model"
	"classtrack_backend/internals/store"
)

// ArtifactStore is the slice of blob storage the reconciler needs. The OSS
// helper satisfies it.
type ArtifactStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Reconciler sweeps every class with unbilled sessions and issues one invoice
// per class: render the PDF, upload it, then commit the invoice row and its
// session links in one transaction. The artifact goes out first so a committed
// invoice never points at a missing file; a crash between upload and commit
// only strands a blob, which the next pass replaces.
type Reconciler struct {
	store     store.Store
	artifacts ArtifactStore

	assetFolder string
	newID       func() string
	now         func() time.Time
}

func NewReconciler(st store.Store, artifacts ArtifactStore, assetFolder string) *Reconciler {
	return &Reconciler{
		store:       st,
		artifacts:   artifacts,
		assetFolder: assetFolder,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// ClassResult reports one class's outcome in a reconciliation pass.
type ClassResult struct {
	ClassID   string
	InvoiceID string
	Sessions  int
	Total     int
	Err       error
}

// Run reconciles every class that currently has unbilled sessions. A failing
// class does not stop the pass; its error is carried in its result. Run
// returns an error only when the class listing itself fails or every class
// failed.
func (r *Reconciler) Run(ctx context.Context) ([]ClassResult, error) {
	classIDs, err := r.store.Invoices().UnbilledClassIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unbilled classes: %w", err)
	}
	if len(classIDs) == 0 {
		log.Println("[RECONCILE] nothing to bill")
		return nil, nil
	}

	results := make([]ClassResult, 0, len(classIDs))
	failed := 0
	for _, classID := range classIDs {
		res := r.RunForClass(ctx, classID)
		if res.Err != nil {
			failed++
			log.Printf("[RECONCILE] class %s failed: %v", classID, res.Err)
		} else if res.InvoiceID != "" {
			log.Printf("[RECONCILE] class %s invoiced %d sessions, total %s", classID, res.Sessions, formatINR(res.Total))
		}
		results = append(results, res)
	}
	if failed == len(classIDs) {
		return results, fmt.Errorf("reconciliation failed for all %d classes", failed)
	}
	return results, nil
}

// RunForClass issues one invoice covering the class's unbilled sessions.
// A class whose sessions were billed between listing and this call yields an
// empty result with no error, which makes the pass idempotent.
func (r *Reconciler) RunForClass(ctx context.Context, classID string) ClassResult {
	res := ClassResult{ClassID: classID}

	sessions, err := r.store.Invoices().UnbilledSessions(ctx, classID)
	if err != nil {
		res.Err = fmt.Errorf("list unbilled sessions: %w", err)
		return res
	}
	if len(sessions) == 0 {
		return res
	}

	class, err := r.store.Classes().GetByID(ctx, classID)
	if err != nil {
		res.Err = fmt.Errorf("load class: %w", err)
		return res
	}

	trainerName := ""
	if class.TrainerID != nil {
		trainer, err := r.store.Users().GetByID(ctx, *class.TrainerID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			res.Err = fmt.Errorf("load trainer: %w", err)
			return res
		}
		if trainer != nil {
			trainerName = trainer.FullName()
		}
	}

	invoiceID := r.newID()
	doc := buildBillingDocument(invoiceID, class, trainerName, sessions, r.now())
	pdfBytes, err := renderInvoicePDF(doc)
	if err != nil {
		res.Err = err
		return res
	}

	key := invoiceArtifactKey(r.assetFolder, invoiceID)
	if err := r.artifacts.Put(ctx, key, bytes.NewReader(pdfBytes), "application/pdf"); err != nil {
		res.Err = fmt.Errorf("upload invoice artifact: %w", err)
		return res
	}

	inv := &model.InvoiceModel{
		ID:          invoiceID,
		ClassID:     classID,
		InvoicePath: key,
	}
	sessionIDs := make([]string, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}
	err = r.store.Atomic(ctx, func(s store.Store) error {
		if err := s.Invoices().Insert(ctx, inv); err != nil {
			return err
		}
		return s.Invoices().LinkSessions(ctx, inv.ID, sessionIDs)
	})
	if err != nil {
		res.Err = fmt.Errorf("commit invoice: %w", err)
		return res
	}

	res.InvoiceID = invoiceID
	res.Sessions = len(sessions)
	res.Total = doc.Total
	return res
}
