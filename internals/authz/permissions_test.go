package authz

import (
	"context"
	"testing"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/constants"
	classmodel "classtrack_backend/internals/features/classes/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
	"classtrack_backend/internals/store/memstore"
)

func admin() *AuthData       { return &AuthData{Sub: "u-admin", Role: constants.RoleAdmin} }
func finance() *AuthData     { return &AuthData{Sub: "u-fin", Role: constants.RoleFinance} }
func facilitator() *AuthData { return &AuthData{Sub: "u-fac", Role: constants.RoleFacilitator} }
func trainer() *AuthData     { return &AuthData{Sub: "u-trainer", Role: constants.RoleTrainer} }
func coordinator() *AuthData { return &AuthData{Sub: "u-coord", Role: constants.RoleCoordinator} }
func guardian() *AuthData    { return &AuthData{Sub: "u-guard", Role: constants.RoleGuardian} }

func TestAssertAdmin(t *testing.T) {
	if err := AssertAdmin(admin()); err != nil {
		t.Fatalf("admin denied: %v", err)
	}
	for _, a := range []*AuthData{nil, {}, {Sub: "x"}, finance(), guardian()} {
		if err := AssertAdmin(a); !apperr.IsUnauthorized(err) {
			t.Errorf("AssertAdmin(%+v) = %v, want unauthorized", a, err)
		}
	}
}

func TestAssertAdminOrFinance(t *testing.T) {
	for _, a := range []*AuthData{admin(), finance()} {
		if err := AssertAdminOrFinance(a); err != nil {
			t.Errorf("%s denied: %v", a.Role, err)
		}
	}
	if err := AssertAdminOrFinance(trainer()); !apperr.IsUnauthorized(err) {
		t.Errorf("trainer allowed: %v", err)
	}
}

func TestAssertTrainerOfClass(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	trainerID := trainer().Sub
	cls := &classmodel.ClassModel{ID: "c1", Name: "Pottery", TrainerID: &trainerID, TrainerCostPerSession: 500}
	if err := st.Classes().Insert(ctx, cls, nil); err != nil {
		t.Fatal(err)
	}

	if err := AssertAdminOrFacilitatorOrTrainerOfClass(ctx, st, trainer(), "c1"); err != nil {
		t.Fatalf("own trainer denied: %v", err)
	}
	if err := AssertAdminOrFacilitatorOrTrainerOfClass(ctx, st, facilitator(), "c1"); err != nil {
		t.Fatalf("facilitator denied: %v", err)
	}

	other := &AuthData{Sub: "u-other", Role: constants.RoleTrainer}
	if err := AssertAdminOrFacilitatorOrTrainerOfClass(ctx, st, other, "c1"); !apperr.IsUnauthorized(err) {
		t.Errorf("foreign trainer allowed: %v", err)
	}
	// a missing class denies rather than leaking existence
	if err := AssertAdminOrFacilitatorOrTrainerOfClass(ctx, st, trainer(), "nope"); !apperr.IsUnauthorized(err) {
		t.Errorf("missing class: got %v, want unauthorized", err)
	}
}

func TestAssertTrainerOfSession(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	trainerID := trainer().Sub
	if err := st.Classes().Insert(ctx, &classmodel.ClassModel{ID: "c1", Name: "Pottery", TrainerID: &trainerID, TrainerCostPerSession: 500}, nil); err != nil {
		t.Fatal(err)
	}
	if err := st.Sessions().Insert(ctx, &sessionmodel.SessionModel{ID: "s1", ClassID: "c1"}, []string{"p1"}); err != nil {
		t.Fatal(err)
	}

	if err := AssertAdminOrFacilitatorOrTrainerOfSession(ctx, st, trainer(), "s1"); err != nil {
		t.Fatalf("own trainer denied: %v", err)
	}
	if err := AssertAdminOrFacilitatorOrTrainerOfSession(ctx, st, trainer(), "missing"); !apperr.IsUnauthorized(err) {
		t.Errorf("missing session: got %v, want unauthorized", err)
	}
}

func TestAssertCoordinatorOfClass(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.Classes().Insert(ctx, &classmodel.ClassModel{ID: "c1", Name: "Pottery", TrainerCostPerSession: 500}, []string{coordinator().Sub}); err != nil {
		t.Fatal(err)
	}

	if err := AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx, st, coordinator(), "c1"); err != nil {
		t.Fatalf("member coordinator denied: %v", err)
	}
	outsider := &AuthData{Sub: "u-outside", Role: constants.RoleCoordinator}
	if err := AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx, st, outsider, "c1"); !apperr.IsUnauthorized(err) {
		t.Errorf("non-member coordinator allowed: %v", err)
	}
	if err := AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx, st, guardian(), "c1"); !apperr.IsUnauthorized(err) {
		t.Errorf("guardian allowed: %v", err)
	}
}
