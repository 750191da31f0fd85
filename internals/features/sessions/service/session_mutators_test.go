// file: internals/features/sessions/service/session_mutators_test.go
package service

import (
	"context"
	"testing"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/constants"
	classmodel "classtrack_backend/internals/features/classes/model"
	"classtrack_backend/internals/features/sessions/dto"
	"classtrack_backend/internals/store/memstore"
)

func trainerCtx(sub string) authz.Context {
	return authz.Authoritative(&authz.AuthData{Sub: sub, Role: constants.RoleTrainer})
}

func seedClassWithTrainer(t *testing.T, st *memstore.Memstore, trainerID string) string {
	t.Helper()
	cls := &classmodel.ClassModel{ID: "c1", Name: "Pottery", TrainerID: &trainerID, TrainerCostPerSession: 500}
	if err := st.Classes().Insert(context.Background(), cls, nil); err != nil {
		t.Fatal(err)
	}
	return cls.ID
}

func TestCreateSessionLinksParticipants(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	classID := seedClassWithTrainer(t, st, "u-trainer")

	m := NewSessionMutators(st)
	sess, err := m.Create(ctx, trainerCtx("u-trainer"), dto.CreateSessionRequest{
		ClassID:        classID,
		ParticipantIDs: []string{"p1", "p2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ClassID != classID {
		t.Errorf("ClassID = %q", sess.ClassID)
	}
	if n := st.Counts()["session_participants"]; n != 2 {
		t.Errorf("session_participants = %d, want 2", n)
	}
}

func TestCreateSessionEmptyAttendanceRejectedBeforeAuthz(t *testing.T) {
	st := memstore.New()
	seedClassWithTrainer(t, st, "u-trainer")

	m := NewSessionMutators(st)
	// even an unauthorized caller sees the validation error for an empty list
	_, err := m.Create(context.Background(), trainerCtx("u-stranger"), dto.CreateSessionRequest{
		ClassID:        "c1",
		ParticipantIDs: nil,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCreateSessionForeignTrainerDenied(t *testing.T) {
	st := memstore.New()
	classID := seedClassWithTrainer(t, st, "u-trainer")

	m := NewSessionMutators(st)
	_, err := m.Create(context.Background(), trainerCtx("u-other"), dto.CreateSessionRequest{
		ClassID:        classID,
		ParticipantIDs: []string{"p1"},
	})
	if !apperr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestDeleteSessionCleansLinks(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	classID := seedClassWithTrainer(t, st, "u-trainer")

	m := NewSessionMutators(st)
	sess, err := m.Create(ctx, trainerCtx("u-trainer"), dto.CreateSessionRequest{
		ClassID:        classID,
		ParticipantIDs: []string{"p1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(ctx, trainerCtx("u-trainer"), sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := st.Counts()["session_participants"]; n != 0 {
		t.Errorf("session_participants = %d, want 0", n)
	}
}

func TestDeleteMissingSessionDenied(t *testing.T) {
	st := memstore.New()
	m := NewSessionMutators(st)
	// the session-scoped policy cannot resolve a missing session, so the
	// caller learns nothing beyond "unauthorized"
	if err := m.Delete(context.Background(), trainerCtx("u-trainer"), "missing"); !apperr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}
