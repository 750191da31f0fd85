// file: internals/features/classes/service/class_mutators.go
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/classes/dto"
	"classtrack_backend/internals/features/classes/model"
	"classtrack_backend/internals/store"
)

// ClassMutators owns the class state transitions. All of them are admin-only.
type ClassMutators struct {
	store store.Store
	newID func() string
}

func NewClassMutators(st store.Store) *ClassMutators {
	return &ClassMutators{store: st, newID: uuid.NewString}
}

func (m *ClassMutators) Create(ctx context.Context, mctx authz.Context, req dto.CreateClassRequest) (*model.ClassModel, error) {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.TrainerCostPerSession <= 0 {
		return nil, apperr.Validation("trainer_cost_per_session must be positive")
	}

	c := &model.ClassModel{
		ID:                    m.newID(),
		Name:                  req.Name,
		Description:           req.Description,
		GuardianID:            req.GuardianID,
		TrainerID:             req.TrainerID,
		TrainerCostPerSession: req.TrainerCostPerSession,
	}
	if err := m.store.Classes().Insert(ctx, c, dedupe(req.CoordinatorIDs)); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *ClassMutators) Update(ctx context.Context, mctx authz.Context, id string, req dto.UpdateClassRequest) (*model.ClassModel, error) {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return nil, err
	}
	c, err := m.store.Classes().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("class not found")
		}
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperr.Validation("name is required")
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.GuardianID != nil {
		c.GuardianID = req.GuardianID
	}
	if req.TrainerID != nil {
		c.TrainerID = req.TrainerID
	}
	if req.TrainerCostPerSession != nil {
		if *req.TrainerCostPerSession <= 0 {
			return nil, apperr.Validation("trainer_cost_per_session must be positive")
		}
		c.TrainerCostPerSession = *req.TrainerCostPerSession
	}

	var toAdd, toRemove []string
	if req.CoordinatorIDs != nil {
		current, err := m.store.Classes().CoordinatorIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		toAdd, toRemove = diffIDs(current, dedupe(*req.CoordinatorIDs))
	}

	err = m.store.Atomic(ctx, func(s store.Store) error {
		if err := s.Classes().Update(ctx, c); err != nil {
			return err
		}
		if len(toAdd) > 0 {
			if err := s.Classes().AddCoordinators(ctx, id, toAdd); err != nil {
				return err
			}
		}
		if len(toRemove) > 0 {
			if err := s.Classes().RemoveCoordinators(ctx, id, toRemove); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (m *ClassMutators) Delete(ctx context.Context, mctx authz.Context, id string) error {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return err
	}
	if err := m.store.Classes().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("class not found")
		}
		return err
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// diffIDs reconciles the coordinator set by difference: rows to insert and
// rows to delete, never a wholesale replace.
func diffIDs(current, desired []string) (toAdd, toRemove []string) {
	cur := map[string]bool{}
	for _, id := range current {
		cur[id] = true
	}
	des := map[string]bool{}
	for _, id := range desired {
		des[id] = true
		if !cur[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !des[id] {
			toRemove = append(toRemove, id)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}
