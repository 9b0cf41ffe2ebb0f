package domain

import (
	"errors"
	"fmt"
	"time"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindUnauthorized
	KindConflict
	KindExternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindExternal:
		return "external_service"
	}
	return "unknown"
}

// Error is a user-facing failure. Message is safe to show verbatim.
type Error struct {
	Kind    ErrorKind
	Message string

	// set on cooldown conflicts
	NextEligibleAt *time.Time

	// set when the actor is missing entirely rather than lacking rights
	Unauthenticated bool

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrExternal     = &Error{Kind: KindExternal}
)

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewUnauthorizedError(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func NewUnauthenticatedError() *Error {
	return &Error{Kind: KindUnauthorized, Message: "sign in required", Unauthenticated: true}
}

func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewCooldownError(next time.Time, now time.Time) *Error {
	hours := HoursUntil(next, now)
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	return &Error{
		Kind:           KindConflict,
		Message:        fmt.Sprintf("You can vote again in %d %s", hours, unit),
		NextEligibleAt: &next,
	}
}

func NewExternalError(msg string, cause error) *Error {
	return &Error{Kind: KindExternal, Message: msg, cause: cause}
}

// HoursUntil rounds the remaining wait up to whole hours.
func HoursUntil(next, now time.Time) int {
	d := next.Sub(now)
	if d <= 0 {
		return 0
	}
	hours := int(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}

func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
