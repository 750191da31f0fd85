// file: internals/features/invoices/service/invoice_service_test.go
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/constants"
	classmodel "classtrack_backend/internals/features/classes/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
	"classtrack_backend/internals/store/memstore"
)

type fakeArtifacts struct {
	keys []string
	err  error
}

func (f *fakeArtifacts) Put(_ context.Context, key string, body io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	if contentType != "application/pdf" {
		return fmt.Errorf("content type %q", contentType)
	}
	f.keys = append(f.keys, key)
	return nil
}

func financeCtx() authz.Context {
	return authz.Authoritative(&authz.AuthData{Sub: "u-fin", Role: constants.RoleFinance})
}

func adminCtx() authz.Context {
	return authz.Authoritative(&authz.AuthData{Sub: "u-admin", Role: constants.RoleAdmin})
}

// seedPottery sets up the Pottery class at 500 per session with three
// sessions held on June 1, 2 and 3.
func seedPottery(t *testing.T, st *memstore.Memstore) {
	t.Helper()
	ctx := context.Background()
	trainerID := "u-trainer"
	cls := &classmodel.ClassModel{ID: "pottery", Name: "Pottery", TrainerID: &trainerID, TrainerCostPerSession: 500}
	if err := st.Classes().Insert(ctx, cls, nil); err != nil {
		t.Fatal(err)
	}
	for day := 1; day <= 3; day++ {
		sess := &sessionmodel.SessionModel{
			ID:        fmt.Sprintf("s%d", day),
			ClassID:   "pottery",
			CreatedAt: time.Date(2026, 6, day, 10, 0, 0, 0, time.UTC),
		}
		if err := st.Sessions().Insert(ctx, sess, []string{"p1"}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGenerateBillsAllUnbilledSessions(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	m := NewInvoiceMutators(st, "assets")
	m.newID = func() string { return "inv1" }

	inv, err := m.Generate(ctx, financeCtx(), "pottery")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if inv.InvoicePath != "assets/invoices/inv1.pdf" {
		t.Errorf("InvoicePath = %q", inv.InvoicePath)
	}
	if got := st.InvoicedSessionIDs("inv1"); len(got) != 3 {
		t.Errorf("billed sessions = %v, want all 3", got)
	}
}

func TestGenerateNothingUnbilledConflicts(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	m := NewInvoiceMutators(st, "assets")
	if _, err := m.Generate(ctx, financeCtx(), "pottery"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Generate(ctx, financeCtx(), "pottery"); !apperr.IsConflict(err) {
		t.Fatalf("second generate: err = %v, want conflict", err)
	}
}

func TestGenerateRequiresAdminOrFinance(t *testing.T) {
	st := memstore.New()
	seedPottery(t, st)

	m := NewInvoiceMutators(st, "assets")
	caller := authz.Authoritative(&authz.AuthData{Sub: "u-t", Role: constants.RoleTrainer})
	if _, err := m.Generate(context.Background(), caller, "pottery"); !apperr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestMarkPaidRequiresApproval(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	m := NewInvoiceMutators(st, "assets")
	inv, err := m.Generate(ctx, financeCtx(), "pottery")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.MarkPaid(ctx, adminCtx(), inv.ID, "shot.webp"); !apperr.IsConflict(err) {
		t.Fatalf("unapproved MarkPaid: err = %v, want conflict", err)
	}

	if _, err := m.ToggleApproved(ctx, adminCtx(), inv.ID); err != nil {
		t.Fatal(err)
	}
	got, err := m.MarkPaid(ctx, adminCtx(), inv.ID, "shot.webp")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if !got.Paid || got.PaymentScreenshot == nil || *got.PaymentScreenshot != "shot.webp" {
		t.Errorf("invoice = %+v, want paid with screenshot", got)
	}
}

func TestApprovalFrozenOncePaid(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	m := NewInvoiceMutators(st, "assets")
	inv, err := m.Generate(ctx, financeCtx(), "pottery")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleApproved(ctx, adminCtx(), inv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.MarkPaid(ctx, adminCtx(), inv.ID, "shot.webp"); err != nil {
		t.Fatal(err)
	}

	if _, err := m.ToggleApproved(ctx, adminCtx(), inv.ID); !apperr.IsConflict(err) {
		t.Fatalf("toggle after paid: err = %v, want conflict", err)
	}
}

func TestToggleApprovedFlips(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	m := NewInvoiceMutators(st, "assets")
	inv, err := m.Generate(ctx, financeCtx(), "pottery")
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.ToggleApproved(ctx, adminCtx(), inv.ID)
	if err != nil || !got.Approved {
		t.Fatalf("first toggle: %v approved=%v", err, got.Approved)
	}
	got, err = m.ToggleApproved(ctx, adminCtx(), inv.ID)
	if err != nil || got.Approved {
		t.Fatalf("second toggle: %v approved=%v", err, got.Approved)
	}
}

func TestReconcilerIssuesOneInvoicePerClass(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	artifacts := &fakeArtifacts{}
	r := NewReconciler(st, artifacts, "assets")
	r.now = func() time.Time { return time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC) }

	results, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("class result: %v", res.Err)
	}
	if res.Sessions != 3 || res.Total != 1500 {
		t.Errorf("sessions=%d total=%d, want 3 sessions at 500 = 1500", res.Sessions, res.Total)
	}
	if len(artifacts.keys) != 1 || !strings.HasPrefix(artifacts.keys[0], "assets/invoices/") {
		t.Errorf("artifact keys = %v", artifacts.keys)
	}

	// second pass finds nothing to bill
	results, err = r.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("second pass results = %v, want none", results)
	}
}

func TestReconcilerUploadFailureCommitsNothing(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)

	artifacts := &fakeArtifacts{err: fmt.Errorf("bucket down")}
	r := NewReconciler(st, artifacts, "assets")

	_, err := r.Run(ctx)
	if err == nil {
		t.Fatal("Run succeeded, want all-classes-failed error")
	}
	if n := st.Counts()["invoices"]; n != 0 {
		t.Errorf("invoices = %d, want 0 after failed upload", n)
	}
	// the sessions stay unbilled so the next pass retries them
	ids, _ := st.Invoices().UnbilledClassIDs(ctx)
	if len(ids) != 1 {
		t.Errorf("unbilled classes = %v, want pottery still due", ids)
	}
}

func TestReconcilerIsolatesFailingClass(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedPottery(t, st)
	// a second class whose sessions reference a class row that is missing,
	// so loading it fails while pottery still succeeds
	if err := st.Sessions().Insert(ctx, &sessionmodel.SessionModel{ID: "ghost-s", ClassID: "ghost"}, []string{"p1"}); err != nil {
		t.Fatal(err)
	}

	artifacts := &fakeArtifacts{}
	r := NewReconciler(st, artifacts, "assets")

	results, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v (one failure must not fail the pass)", err)
	}
	var ok, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else if res.InvoiceID != "" {
			ok++
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("ok=%d failed=%d, want 1 and 1", ok, failed)
	}
}

func TestBuildBillingDocumentOrdersAndTotals(t *testing.T) {
	cls := &classmodel.ClassModel{ID: "pottery", Name: "Pottery", TrainerCostPerSession: 500}
	sessions := []sessionmodel.SessionModel{
		{ID: "s1", CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "s2", CreatedAt: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "s3", CreatedAt: time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)},
	}
	doc := buildBillingDocument("inv1", cls, "Asha Rao", sessions, time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC))
	if doc.Total != 1500 {
		t.Errorf("Total = %d, want 1500", doc.Total)
	}
	if len(doc.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(doc.Lines))
	}
	for i := 1; i < len(doc.Lines); i++ {
		if doc.Lines[i].Date.Before(doc.Lines[i-1].Date) {
			t.Errorf("lines out of order at %d", i)
		}
	}
}

func TestRenderInvoicePDF(t *testing.T) {
	cls := &classmodel.ClassModel{ID: "pottery", Name: "Pottery", TrainerCostPerSession: 500}
	sessions := []sessionmodel.SessionModel{
		{ID: "s1", CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	doc := buildBillingDocument("inv1", cls, "", sessions, time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC))
	data, err := renderInvoicePDF(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("output is not a PDF (starts %q)", data[:8])
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "Rs. 0"},
		{500, "Rs. 500"},
		{1500, "Rs. 1,500"},
		{100000, "Rs. 1,00,000"},
		{1234567, "Rs. 12,34,567"},
		{-1500, "-Rs. 1,500"},
	}
	for _, c := range cases {
		if got := formatINR(c.in); got != c.want {
			t.Errorf("formatINR(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
