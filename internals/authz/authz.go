// file: internals/authz/authz.go
package authz

import "classtrack_backend/internals/constants"

// AuthData is the identity context resolved per call. A nil AuthData, an
// empty Sub, or an absent Role all mean "not authenticated" to every policy.
type AuthData struct {
	Sub  string
	Role constants.Role
}

// Context is passed to every mutator. Authoritative is the capability flag
// deciding whether external side effects (identity directory writes) run;
// the speculative replica passes false and the write is merely staged. The
// flag never changes authorization or write logic.
type Context struct {
	Auth          *AuthData
	Authoritative bool
}

// Authoritative is a convenience constructor for the server-side path.
func Authoritative(auth *AuthData) Context {
	return Context{Auth: auth, Authoritative: true}
}

// Local is the speculative, side-effect-free path.
func Local(auth *AuthData) Context {
	return Context{Auth: auth, Authoritative: false}
}
