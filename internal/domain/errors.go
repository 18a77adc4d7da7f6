package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures the way the user sees them.
type ErrorKind int

const (
	// KindTransport: the request never produced a usable response.
	KindTransport ErrorKind = iota + 1
	// KindRejected: the server answered with an error body.
	KindRejected
	// KindValidation: a local form check failed before any request.
	KindValidation
	// KindPrecondition: the action is not allowed in the current state.
	KindPrecondition
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	}
	return "unknown"
}

// Well-known server error codes.
const (
	CodeAgreementIncomplete = "AGREEMENT_INCOMPLETE"
)

// Error is the client error type.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Status  int
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s error [%s]: %s", e.Kind, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message && e.Code == t.Code
}

// NewTransportError wraps a failed request.
func NewTransportError(cause error) *Error {
	return &Error{Kind: KindTransport, Cause: cause}
}

// NewRejectedError builds an error from a server error body.
func NewRejectedError(status int, code, message string) *Error {
	return &Error{Kind: KindRejected, Status: status, Code: code, Message: message}
}

// NewValidationError reports a failed local check on field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Precondition failures.
var (
	ErrNotConfirmed    = &Error{Kind: KindPrecondition, Message: "negotiation not confirmed by both sides"}
	ErrIncompleteTerms = &Error{Kind: KindPrecondition, Message: "negotiation terms incomplete"}
	ErrNotSeeker       = &Error{Kind: KindPrecondition, Message: "only the seeker may do this"}
	ErrNoOffer         = &Error{Kind: KindPrecondition, Message: "no offer resolved for conversation"}
	ErrEmptyMessage    = &Error{Kind: KindPrecondition, Message: "message is empty"}
	ErrClosed          = &Error{Kind: KindPrecondition, Message: "view closed"}
)

// IsKind reports whether err is a client error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// CodeOf returns the server error code carried by err, if any.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf returns the server-provided message carried by err, if any.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
