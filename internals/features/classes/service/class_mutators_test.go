// file: internals/features/classes/service/class_mutators_test.go
package service

import (
	"context"
	"reflect"
	"testing"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/constants"
	"classtrack_backend/internals/features/classes/dto"
	"classtrack_backend/internals/store/memstore"
)

func adminCtx() authz.Context {
	return authz.Authoritative(&authz.AuthData{Sub: "u-admin", Role: constants.RoleAdmin})
}

func TestCreateClassWithCoordinators(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := NewClassMutators(st)

	cls, err := m.Create(ctx, adminCtx(), dto.CreateClassRequest{
		Name:                  "Pottery",
		TrainerCostPerSession: 500,
		CoordinatorIDs:        []string{"c2", "c1", "c1"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ids, err := st.Classes().CoordinatorIDs(ctx, cls.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c1", "c2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("coordinators = %v, want %v (deduped)", ids, want)
	}
}

func TestCreateClassValidation(t *testing.T) {
	m := NewClassMutators(memstore.New())
	if _, err := m.Create(context.Background(), adminCtx(), dto.CreateClassRequest{Name: " ", TrainerCostPerSession: 500}); !apperr.IsValidation(err) {
		t.Errorf("blank name: err = %v, want validation", err)
	}
	if _, err := m.Create(context.Background(), adminCtx(), dto.CreateClassRequest{Name: "X", TrainerCostPerSession: 0}); !apperr.IsValidation(err) {
		t.Errorf("zero cost: err = %v, want validation", err)
	}
}

func TestCreateClassRequiresAdmin(t *testing.T) {
	m := NewClassMutators(memstore.New())
	caller := authz.Authoritative(&authz.AuthData{Sub: "u1", Role: constants.RoleFacilitator})
	if _, err := m.Create(context.Background(), caller, dto.CreateClassRequest{Name: "X", TrainerCostPerSession: 1}); !apperr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestUpdateClassReconcilesCoordinatorSet(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := NewClassMutators(st)

	cls, err := m.Create(ctx, adminCtx(), dto.CreateClassRequest{
		Name:                  "Pottery",
		TrainerCostPerSession: 500,
		CoordinatorIDs:        []string{"c1", "c2"},
	})
	if err != nil {
		t.Fatal(err)
	}

	// c2 leaves, c3 joins, c1 stays
	desired := []string{"c1", "c3"}
	if _, err := m.Update(ctx, adminCtx(), cls.ID, dto.UpdateClassRequest{CoordinatorIDs: &desired}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ids, err := st.Classes().CoordinatorIDs(ctx, cls.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c1", "c3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("coordinators = %v, want %v", ids, want)
	}
}

func TestUpdateClassWithoutCoordinatorsLeavesSetAlone(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := NewClassMutators(st)

	cls, err := m.Create(ctx, adminCtx(), dto.CreateClassRequest{
		Name:                  "Pottery",
		TrainerCostPerSession: 500,
		CoordinatorIDs:        []string{"c1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	cost := 750
	got, err := m.Update(ctx, adminCtx(), cls.ID, dto.UpdateClassRequest{TrainerCostPerSession: &cost})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.TrainerCostPerSession != 750 {
		t.Errorf("cost = %d, want 750", got.TrainerCostPerSession)
	}
	ids, _ := st.Classes().CoordinatorIDs(ctx, cls.ID)
	if want := []string{"c1"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("coordinators = %v, want untouched %v", ids, want)
	}
}

func TestDeleteClassMissing(t *testing.T) {
	m := NewClassMutators(memstore.New())
	if err := m.Delete(context.Background(), adminCtx(), "nope"); !apperr.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestDiffIDs(t *testing.T) {
	toAdd, toRemove := diffIDs([]string{"a", "b", "c"}, []string{"b", "c", "d"})
	if want := []string{"d"}; !reflect.DeepEqual(toAdd, want) {
		t.Errorf("toAdd = %v, want %v", toAdd, want)
	}
	if want := []string{"a"}; !reflect.DeepEqual(toRemove, want) {
		t.Errorf("toRemove = %v, want %v", toRemove, want)
	}
}
