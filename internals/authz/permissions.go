// file: internals/authz/permissions.go
package authz

import (
	"context"
	"errors"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/constants"
	"classtrack_backend/internals/store"
)

// Every policy fails with the same message so callers cannot probe which
// check rejected them. Unauthenticated calls fail before any role check.
var errUnauthorized = apperr.Unauthorized("unauthorized")

func assertLoggedIn(a *AuthData) error {
	if a == nil || a.Sub == "" || a.Role == "" {
		return errUnauthorized
	}
	return nil
}

// AssertLoggedIn is the weakest policy: any authenticated principal passes.
// Asset uploads use it.
func AssertLoggedIn(a *AuthData) error {
	return assertLoggedIn(a)
}

func AssertAdmin(a *AuthData) error {
	if err := assertLoggedIn(a); err != nil {
		return err
	}
	if a.Role != constants.RoleAdmin {
		return errUnauthorized
	}
	return nil
}

func AssertAdminOrFinance(a *AuthData) error {
	if err := assertLoggedIn(a); err != nil {
		return err
	}
	if a.Role != constants.RoleAdmin && a.Role != constants.RoleFinance {
		return errUnauthorized
	}
	return nil
}

func AssertAdminOrFacilitator(a *AuthData) error {
	if err := assertLoggedIn(a); err != nil {
		return err
	}
	if a.Role != constants.RoleAdmin && a.Role != constants.RoleFacilitator {
		return errUnauthorized
	}
	return nil
}

// AssertAdminOrFacilitatorOrTrainerOfClass allows admins and facilitators
// outright, and trainers only when the class's trainer_id equals the
// principal. A missing class denies rather than erroring; the caller decides
// whether to surface NotFound separately.
func AssertAdminOrFacilitatorOrTrainerOfClass(ctx context.Context, s store.Store, a *AuthData, classID string) error {
	if err := assertLoggedIn(a); err != nil {
		return err
	}
	if a.Role == constants.RoleAdmin || a.Role == constants.RoleFacilitator {
		return nil
	}
	cls, err := s.Classes().GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errUnauthorized
		}
		return err
	}
	if cls.TrainerID == nil || *cls.TrainerID != a.Sub {
		return errUnauthorized
	}
	return nil
}

// AssertAdminOrFacilitatorOrTrainerOfSession resolves the session's class and
// delegates to the class-trainer check.
func AssertAdminOrFacilitatorOrTrainerOfSession(ctx context.Context, s store.Store, a *AuthData, sessionID string) error {
	if err := assertLoggedIn(a); err != nil {
		return err
	}
	if a.Role == constants.RoleAdmin || a.Role == constants.RoleFacilitator {
		return nil
	}
	sess, err := s.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errUnauthorized
		}
		return err
	}
	return AssertAdminOrFacilitatorOrTrainerOfClass(ctx, s, a, sess.ClassID)
}

// AssertAdminOrFacilitatorOrCoordinatorOfClass allows admins and facilitators
// outright, and coordinators only when they appear among the class's
// coordinators.
func AssertAdminOrFacilitatorOrCoordinatorOfClass(ctx context.Context, s store.Store, a *AuthData, classID string) error {
	if err := assertLoggedIn(a); err != nil {
		return err
	}
	if a.Role == constants.RoleAdmin || a.Role == constants.RoleFacilitator {
		return nil
	}
	ids, err := s.Classes().CoordinatorIDs(ctx, classID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errUnauthorized
		}
		return err
	}
	for _, id := range ids {
		if id == a.Sub {
			return nil
		}
	}
	return errUnauthorized
}
