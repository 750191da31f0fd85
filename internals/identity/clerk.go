// file: internals/identity/clerk.go
package identity

import (
	"context"
	"encoding/json"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"classtrack_backend/internals/apperr"
	"classtrack_backend/internals/constants"
)

// ClerkDirectory implements Directory against the Clerk backend API. The
// role travels in public metadata so the frontend token carries it.
type ClerkDirectory struct {
	users *user.Client
}

func NewClerkDirectory(secretKey string) *ClerkDirectory {
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(secretKey)
	return &ClerkDirectory{users: user.NewClient(cfg)}
}

func roleMetadata(role constants.Role) (*json.RawMessage, error) {
	b, err := json.Marshal(map[string]string{"role": string(role)})
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(b)
	return &raw, nil
}

func (d *ClerkDirectory) CreateUser(ctx context.Context, p Profile) (string, error) {
	meta, err := roleMetadata(p.Role)
	if err != nil {
		return "", err
	}
	params := &user.CreateParams{
		FirstName:          clerk.String(p.FirstName),
		EmailAddresses:     &[]string{p.Email},
		Password:           clerk.String(p.Password),
		SkipPasswordChecks: clerk.Bool(true),
		PublicMetadata:     meta,
	}
	if p.LastName != nil {
		params.LastName = clerk.String(*p.LastName)
	}
	u, err := d.users.Create(ctx, params)
	if err != nil {
		return "", apperr.External("identity directory create failed", err)
	}
	return u.ID, nil
}

func (d *ClerkDirectory) UpdateUser(ctx context.Context, externalID string, p Profile) error {
	meta, err := roleMetadata(p.Role)
	if err != nil {
		return err
	}
	params := &user.UpdateParams{
		FirstName:      clerk.String(p.FirstName),
		PublicMetadata: meta,
	}
	if p.LastName != nil {
		params.LastName = clerk.String(*p.LastName)
	}
	if _, err := d.users.Update(ctx, externalID, params); err != nil {
		return apperr.External("identity directory update failed", err)
	}
	return nil
}

func (d *ClerkDirectory) DeleteUser(ctx context.Context, externalID string) error {
	if _, err := d.users.Delete(ctx, externalID); err != nil {
		return apperr.External("identity directory delete failed", err)
	}
	return nil
}
