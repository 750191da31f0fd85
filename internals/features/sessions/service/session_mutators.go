// file: internals/features/sessions/service/session_mutators.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/sessions/dto"
	"classtrack_backend/internals/features/sessions/model"
	"classtrack_backend/internals/store"
)

// SessionMutators owns the session state transitions, authorized for admins,
// facilitators, and the trainer of the session's class.
type SessionMutators struct {
	store store.Store
	newID func() string
}

func NewSessionMutators(st store.Store) *SessionMutators {
	return &SessionMutators{store: st, newID: uuid.NewString}
}

func (m *SessionMutators) Create(ctx context.Context, mctx authz.Context, req dto.CreateSessionRequest) (*model.SessionModel, error) {
	// An attendance record with nobody in attendance is meaningless; reject
	// before any write.
	if len(req.ParticipantIDs) == 0 {
		return nil, apperr.Validation("participant_ids must not be empty")
	}
	if err := authz.AssertAdminOrFacilitatorOrTrainerOfClass(ctx, m.store, mctx.Auth, req.ClassID); err != nil {
		return nil, err
	}

	sess := &model.SessionModel{
		ID:      m.newID(),
		ClassID: req.ClassID,
		Photo:   req.Photo,
	}
	if err := m.store.Sessions().Insert(ctx, sess, req.ParticipantIDs); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *SessionMutators) Delete(ctx context.Context, mctx authz.Context, id string) error {
	if err := authz.AssertAdminOrFacilitatorOrTrainerOfSession(ctx, m.store, mctx.Auth, id); err != nil {
		return err
	}
	if err := m.store.Sessions().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("session not found")
		}
		return err
	}
	return nil
}
