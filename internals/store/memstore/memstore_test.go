// file: internals/store/memstore/memstore_test.go
package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	classmodel "classtrack_backend/internals/features/classes/model"
	invoicemodel "classtrack_backend/internals/features/invoices/model"
	participantmodel "classtrack_backend/internals/features/participants/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
	usermodel "classtrack_backend/internals/features/users/model"
	"classtrack_backend/internals/store"
)

func seedWorld(t *testing.T, m *Memstore) {
	t.Helper()
	ctx := context.Background()

	trainerID := "u-trainer"
	if err := m.Users().Insert(ctx, &usermodel.UserModel{ID: trainerID, FirstName: "T", Email: "t@x", PhoneNumber: "1", Role: "trainer"}); err != nil {
		t.Fatal(err)
	}
	cls := &classmodel.ClassModel{ID: "c1", Name: "Pottery", TrainerID: &trainerID, TrainerCostPerSession: 500}
	if err := m.Classes().Insert(ctx, cls, []string{"u-coord"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Participants().Insert(ctx, &participantmodel.ParticipantModel{ID: "p1", Name: "R", DOB: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), Age: 10, Gender: "male", ClassID: "c1"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Sessions().Insert(ctx, &sessionmodel.SessionModel{ID: "s1", ClassID: "c1"}, []string{"p1"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Invoices().Insert(ctx, &invoicemodel.InvoiceModel{ID: "i1", ClassID: "c1", InvoicePath: "assets/invoices/i1.pdf"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Invoices().LinkSessions(ctx, "i1", []string{"s1"}); err != nil {
		t.Fatal(err)
	}
}

func TestClassDeleteCascades(t *testing.T) {
	m := New()
	seedWorld(t, m)

	if err := m.Classes().Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	counts := m.Counts()
	for _, table := range []string{"classes", "class_coordinators", "participants", "sessions", "session_participants", "invoices", "invoiced_sessions"} {
		if counts[table] != 0 {
			t.Errorf("%s = %d, want 0 after class delete", table, counts[table])
		}
	}
	if counts["users"] != 1 {
		t.Errorf("users = %d, want untouched 1", counts["users"])
	}
}

func TestUserDeleteNullsTrainerAndDropsCoordinatorRows(t *testing.T) {
	m := New()
	seedWorld(t, m)
	ctx := context.Background()

	if err := m.Users().Delete(ctx, "u-trainer"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cls, err := m.Classes().GetByID(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if cls.TrainerID != nil {
		t.Errorf("TrainerID = %v, want nil after trainer delete", *cls.TrainerID)
	}
	// coordinator rows reference users and cascade with them
	if err := m.Users().Insert(ctx, &usermodel.UserModel{ID: "u-coord", FirstName: "C", Email: "c@x", PhoneNumber: "2", Role: "coordinator"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Users().Delete(ctx, "u-coord"); err != nil {
		t.Fatal(err)
	}
	if n := m.Counts()["class_coordinators"]; n != 0 {
		t.Errorf("class_coordinators = %d, want 0", n)
	}
}

func TestSessionDeleteDropsJoinRows(t *testing.T) {
	m := New()
	seedWorld(t, m)

	if err := m.Sessions().Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	counts := m.Counts()
	if counts["session_participants"] != 0 || counts["invoiced_sessions"] != 0 {
		t.Errorf("join rows remain: %v", counts)
	}
	if counts["invoices"] != 1 {
		t.Errorf("invoices = %d, want 1 (invoice row survives)", counts["invoices"])
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	m := New()
	seedWorld(t, m)
	ctx := context.Background()

	before := m.Counts()
	boom := errors.New("boom")
	err := m.Atomic(ctx, func(s store.Store) error {
		if err := s.Invoices().Insert(ctx, &invoicemodel.InvoiceModel{ID: "i2", ClassID: "c1", InvoicePath: "x"}); err != nil {
			return err
		}
		if err := s.Invoices().LinkSessions(ctx, "i2", []string{"s1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	after := m.Counts()
	for table, n := range before {
		if after[table] != n {
			t.Errorf("%s = %d, want restored %d", table, after[table], n)
		}
	}
}

func TestUnbilledQueries(t *testing.T) {
	m := New()
	seedWorld(t, m)
	ctx := context.Background()

	// s1 is billed; add two unbilled sessions out of order
	if err := m.Sessions().Insert(ctx, &sessionmodel.SessionModel{ID: "s3", ClassID: "c1", CreatedAt: time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)}, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Sessions().Insert(ctx, &sessionmodel.SessionModel{ID: "s2", ClassID: "c1", CreatedAt: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)}, nil); err != nil {
		t.Fatal(err)
	}

	ids, err := m.Invoices().UnbilledClassIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "c1" {
		t.Errorf("UnbilledClassIDs = %v, want [c1]", ids)
	}

	sessions, err := m.Invoices().UnbilledSessions(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 || sessions[0].ID != "s2" || sessions[1].ID != "s3" {
		t.Errorf("UnbilledSessions = %v, want s2 then s3 (created_at asc)", sessions)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	m := New()
	if _, err := m.Users().GetByID(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
