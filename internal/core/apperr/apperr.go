// Package apperr classifies domain errors so the HTTP layer can map them to
// status codes without knowing every package's sentinels.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

// Error carries a caller-facing message and the kind it belongs to.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

func BadRequest(msg string) error { return &Error{kind: ErrBadRequest, msg: msg} }

func Conflict(msg string) error { return &Error{kind: ErrConflict, msg: msg} }
