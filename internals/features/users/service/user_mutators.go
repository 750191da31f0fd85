// file: internals/features/users/service/user_mutators.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/constants"
	"classtrack_backend/internals/features/users/dto"
	"classtrack_backend/internals/features/users/model"
	"classtrack_backend/internals/identity"
	"classtrack_backend/internals/store"
)

// UserMutators owns the user state transitions. These are the only mutators
// with an external side effect: the identity directory must stay in sync with
// role and name, and Create is a two-system write ordered so a local failure
// can be compensated by deleting the just-created directory record.
type UserMutators struct {
	store     store.Store
	directory identity.Directory
	newID     func() string
}

func NewUserMutators(st store.Store, dir identity.Directory) *UserMutators {
	return &UserMutators{store: st, directory: dir, newID: uuid.NewString}
}

func (m *UserMutators) Create(ctx context.Context, mctx authz.Context, req dto.CreateUserRequest) (*model.UserModel, error) {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, apperr.Validation("first_name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperr.Validation("email is required")
	}
	if !constants.ValidRole(req.Role) {
		return nil, apperr.Validation("unknown role")
	}

	u := &model.UserModel{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	}

	if !mctx.Authoritative {
		// Speculative write only; the directory record is created when the
		// authoritative context confirms.
		u.ID = req.ID
		if u.ID == "" {
			u.ID = m.newID()
		}
		if err := m.store.Users().Insert(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}

	if m.directory == nil {
		return nil, apperr.External("identity directory not configured", nil)
	}
	if req.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	// Directory create first: an insert failure below is compensated by
	// deleting the record we just created. The reverse order would leave a
	// local user no one can log in as.
	externalID, err := m.directory.CreateUser(ctx, identity.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return nil, err
	}

	u.ID = externalID
	if err := m.store.Users().Insert(ctx, u); err != nil {
		if derr := m.directory.DeleteUser(ctx, externalID); derr != nil {
			log.Printf("[USERS] compensation failed, directory record %s is orphaned: %v", externalID, derr)
		}
		return nil, err
	}
	return u, nil
}

func (m *UserMutators) Update(ctx context.Context, mctx authz.Context, id string, req dto.UpdateUserRequest) (*model.UserModel, error) {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return nil, err
	}
	u, err := m.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = req.LastName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}
	if req.Role != nil {
		if !constants.ValidRole(*req.Role) {
			return nil, apperr.Validation("unknown role")
		}
		u.Role = *req.Role
	}

	if mctx.Authoritative {
		if m.directory == nil {
			return nil, apperr.External("identity directory not configured", nil)
		}
		if err := m.directory.UpdateUser(ctx, u.ID, identity.Profile{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
		}); err != nil {
			return nil, err
		}
	}

	if err := m.store.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (m *UserMutators) Delete(ctx context.Context, mctx authz.Context, id string) error {
	if err := authz.AssertAdmin(mctx.Auth); err != nil {
		return err
	}
	if _, err := m.store.Users().GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	if mctx.Authoritative {
		if m.directory == nil {
			return apperr.External("identity directory not configured", nil)
		}
		if err := m.directory.DeleteUser(ctx, id); err != nil {
			return err
		}
	}
	return m.store.Users().Delete(ctx, id)
}
