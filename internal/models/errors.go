package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expected business-rule failures.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindInvalidState ErrorKind = "invalid_state"
	KindForbidden    ErrorKind = "forbidden"
)

// Error is the typed failure returned by domain operations and repositories.
// Two errors match under errors.Is when their kinds are equal and the target
// either carries no code or the same code.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		if e.Code != "" {
			return string(e.Kind) + ": " + e.Code
		}
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrForbidden    = &Error{Kind: KindForbidden}

	ErrNotParticipant  = &Error{Kind: KindForbidden, Code: "not_participant", Message: "user is not a participant"}
	ErrNotAuthor       = &Error{Kind: KindForbidden, Code: "not_author", Message: "only the sender may do this"}
	ErrMessageDeleted  = &Error{Kind: KindInvalidState, Code: "message_deleted", Message: "message is deleted"}
	ErrChannelArchived = &Error{Kind: KindInvalidState, Code: "channel_archived", Message: "channel is archived"}
)

func newError(kind ErrorKind, code, format string, args ...any) error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validationf builds a validation error.
func Validationf(format string, args ...any) error {
	return newError(KindValidation, "", format, args...)
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...any) error {
	return newError(KindNotFound, "", format, args...)
}

// Conflictf builds a conflict error.
func Conflictf(format string, args ...any) error {
	return newError(KindConflict, "", format, args...)
}

// InvalidStatef builds an invalid-state error.
func InvalidStatef(format string, args ...any) error {
	return newError(KindInvalidState, "", format, args...)
}

// Forbiddenf builds a forbidden error.
func Forbiddenf(format string, args ...any) error {
	return newError(KindForbidden, "", format, args...)
}

// KindOf reports the kind of a domain error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
