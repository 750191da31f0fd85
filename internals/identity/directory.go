// file: internals/identity/directory.go
package identity

import (
	"context"

	"classtrack_backend/internals/constants"
)

// Profile is the slice of a user the directory cares about. Password is only
// set on create; updates never push credentials.
type Profile struct {
	FirstName string
	LastName  *string
	Email     string
	Password  string
	Role      constants.Role
}

// Directory is the identity-provider collaborator. It is fallible and not
// transactional with the Domain Store: callers performing a directory write
// followed by a local write own the compensating action.
type Directory interface {
	CreateUser(ctx context.Context, p Profile) (externalID string, err error)
	UpdateUser(ctx context.Context, externalID string, p Profile) error
	DeleteUser(ctx context.Context, externalID string) error
}
