// file: internals/features/participants/service/participant_mutators.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/constants"
	"classtrack_backend/internals/features/participants/dto"
	"classtrack_backend/internals/features/participants/model"
	"classtrack_backend/internals/store"
)

// ParticipantMutators owns the participant state transitions, authorized for
// admins, facilitators, and the coordinators of the participant's class.
type ParticipantMutators struct {
	store store.Store
	newID func() string
	now   func() time.Time
}

func NewParticipantMutators(st store.Store) *ParticipantMutators {
	return &ParticipantMutators{store: st, newID: uuid.NewString, now: time.Now}
}

func (m *ParticipantMutators) Create(ctx context.Context, mctx authz.Context, req dto.CreateParticipantRequest) (*model.ParticipantModel, error) {
	if err := authz.AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx, m.store, mctx.Auth, req.ClassID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if !constants.ValidGender(req.Gender) {
		return nil, apperr.Validation("gender must be male or female")
	}
	now := m.now()
	if req.DOB.IsZero() || req.DOB.After(now) {
		return nil, apperr.Validation("dob must be a past date")
	}

	p := &model.ParticipantModel{
		ID:      m.newID(),
		Name:    req.Name,
		DOB:     req.DOB,
		Age:     yearsBetween(req.DOB, now),
		Gender:  req.Gender,
		ClassID: req.ClassID,
	}
	if err := m.store.Participants().Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *ParticipantMutators) Update(ctx context.Context, mctx authz.Context, id string, req dto.UpdateParticipantRequest) (*model.ParticipantModel, error) {
	// Existence first: "not found" is reported before "unauthorized".
	p, err := m.store.Participants().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("participant not found")
		}
		return nil, err
	}
	if err := authz.AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx, m.store, mctx.Auth, p.ClassID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperr.Validation("name is required")
		}
		p.Name = *req.Name
	}
	if req.DOB != nil {
		// Age stays the creation-time snapshot even when dob changes.
		p.DOB = *req.DOB
	}
	if req.Gender != nil {
		if !constants.ValidGender(*req.Gender) {
			return nil, apperr.Validation("gender must be male or female")
		}
		p.Gender = *req.Gender
	}
	if req.ClassID != nil {
		p.ClassID = *req.ClassID
	}

	if err := m.store.Participants().Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *ParticipantMutators) Delete(ctx context.Context, mctx authz.Context, id string) error {
	p, err := m.store.Participants().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("participant not found")
		}
		return err
	}
	if err := authz.AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx, m.store, mctx.Auth, p.ClassID); err != nil {
		return err
	}
	return m.store.Participants().Delete(ctx, id)
}

// yearsBetween is floor(whole years between dob and now).
func yearsBetween(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
