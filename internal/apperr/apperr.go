// Package apperr defines the error taxonomy shared by services and handlers.
// Services return *Error values; the HTTP boundary maps their Kind to a status code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidCredentials
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidIdentifier
	KindAlreadyLiked
	KindNotLiked
	KindConflict
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindValidation:         "validation",
	KindInvalidCredentials: "invalid_credentials",
	KindUnauthorized:       "unauthorized",
	KindForbidden:          "forbidden",
	KindNotFound:           "not_found",
	KindInvalidIdentifier:  "invalid_identifier",
	KindAlreadyLiked:       "already_liked",
	KindNotLiked:           "not_liked",
	KindConflict:           "conflict",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FieldError is one failed input check, in the shape clients already know:
// {"msg": "...", "param": "...", "location": "body"}.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// Error is an application error carrying a Kind and a client-safe message.
// Err holds the underlying cause and is never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, apperr.ErrNotFound) works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil && t.Fields == nil
}

// Sentinels for errors.Is comparisons.
var (
	ErrInternal           = &Error{Kind: KindInternal}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidIdentifier  = &Error{Kind: KindInvalidIdentifier}
	ErrAlreadyLiked       = &Error{Kind: KindAlreadyLiked}
	ErrNotLiked           = &Error{Kind: KindNotLiked}
	ErrConflict           = &Error{Kind: KindConflict}
)

func Validation(fields ...FieldError) *Error {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fields[0].Msg
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// InvalidCredentials carries the same message for an unknown email and a
// wrong password.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func InvalidIdentifier(msg string) *Error {
	return &Error{Kind: KindInvalidIdentifier, Message: msg}
}

func AlreadyLiked() *Error {
	return &Error{Kind: KindAlreadyLiked, Message: "Post is already liked"}
}

func NotLiked() *Error {
	return &Error{Kind: KindNotLiked, Message: "Post has not been liked"}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// Internal wraps an unexpected failure. The message is fixed so nothing
// from err can leak to a client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Server error", Err: err}
}

// As returns the first *Error in err's chain, wrapping unknown errors as Internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
