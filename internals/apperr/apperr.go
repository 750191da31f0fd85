// file: internals/apperr/apperr.go
package apperr

import "errors"

// Kind classifies a mutator or job failure. Controllers map kinds onto HTTP
// status codes; services never deal in HTTP.
type Kind int

const (
	KindUnauthorized Kind = iota + 1 // principal absent or policy denied
	KindNotFound                     // target entity missing
	KindValidation                   // argument shape/range violation
	KindConflict                     // state conflict (e.g. nothing to bill)
	KindExternal                     // identity directory / artifact store failed
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Validation(msg string) error   { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }

// External wraps a failure from an external collaborator. err may be nil.
func External(msg string, err error) error {
	return &Error{Kind: KindExternal, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsExternal(err error) bool     { return KindOf(err) == KindExternal }
