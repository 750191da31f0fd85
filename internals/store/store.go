// file: internals/store/store.go
package store

import (
	"context"
	"errors"

	classmodel "classtrack_backend/internals/features/classes/model"
	invoicemodel "classtrack_backend/internals/features/invoices/model"
	participantmodel "classtrack_backend/internals/features/participants/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
	usermodel "classtrack_backend/internals/features/users/model"
)

// ErrNotFound is returned by every Get when the row does not exist.
// Implementations translate their own sentinel (gorm.ErrRecordNotFound,
// missing map key) into this one so mutators never import persistence
// packages.
var ErrNotFound = errors.New("record not found")

// Store is the Domain Store: the only shared mutable resource. The mutator
// set and the reconciliation job are written against this interface so the
// same function body runs against the authoritative Postgres store and the
// local in-memory replica.
type Store interface {
	Users() UserStore
	Classes() ClassStore
	Participants() ParticipantStore
	Sessions() SessionStore
	Invoices() InvoiceStore

	// Atomic runs fn against a store whose writes become visible all at
	// once, or not at all if fn returns an error.
	Atomic(ctx context.Context, fn func(Store) error) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*usermodel.UserModel, error)
	List(ctx context.Context) ([]usermodel.UserModel, error)
	Insert(ctx context.Context, u *usermodel.UserModel) error
	Update(ctx context.Context, u *usermodel.UserModel) error
	Delete(ctx context.Context, id string) error
}

type ClassStore interface {
	GetByID(ctx context.Context, id string) (*classmodel.ClassModel, error)
	List(ctx context.Context) ([]classmodel.ClassModel, error)
	// CoordinatorIDs returns the coordinator user ids of the class, sorted.
	CoordinatorIDs(ctx context.Context, classID string) ([]string, error)
	Insert(ctx context.Context, c *classmodel.ClassModel, coordinatorIDs []string) error
	Update(ctx context.Context, c *classmodel.ClassModel) error
	AddCoordinators(ctx context.Context, classID string, coordinatorIDs []string) error
	RemoveCoordinators(ctx context.Context, classID string, coordinatorIDs []string) error
	Delete(ctx context.Context, id string) error
}

type ParticipantStore interface {
	GetByID(ctx context.Context, id string) (*participantmodel.ParticipantModel, error)
	Insert(ctx context.Context, p *participantmodel.ParticipantModel) error
	Update(ctx context.Context, p *participantmodel.ParticipantModel) error
	Delete(ctx context.Context, id string) error
}

type SessionStore interface {
	GetByID(ctx context.Context, id string) (*sessionmodel.SessionModel, error)
	Insert(ctx context.Context, s *sessionmodel.SessionModel, participantIDs []string) error
	Delete(ctx context.Context, id string) error
}

type InvoiceStore interface {
	GetByID(ctx context.Context, id string) (*invoicemodel.InvoiceModel, error)
	List(ctx context.Context) ([]invoicemodel.InvoiceModel, error)
	Insert(ctx context.Context, inv *invoicemodel.InvoiceModel) error
	Update(ctx context.Context, inv *invoicemodel.InvoiceModel) error
	Delete(ctx context.Context, id string) error

	// UnbilledClassIDs lists distinct classes having at least one session
	// with no invoiced_sessions row.
	UnbilledClassIDs(ctx context.Context) ([]string, error)
	// UnbilledSessions lists the class's unbilled sessions ordered by
	// creation time ascending; this is the billing order.
	UnbilledSessions(ctx context.Context, classID string) ([]sessionmodel.SessionModel, error)
	// LinkSessions records one invoiced_sessions row per session.
	LinkSessions(ctx context.Context, invoiceID string, sessionIDs []string) error
}
