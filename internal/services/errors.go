package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/paymybuddy/backend/internal/audit"
)

type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"
	KindAlreadyExists     ErrorKind = "ALREADY_EXISTS"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindStorageFailure    ErrorKind = "STORAGE_FAILURE"
)

// Error is the result of a rejected operation. Every kind except
// KindStorageFailure is an expected business outcome.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, services.ErrInsufficientFunds).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrAlreadyExists     = &Error{Kind: KindAlreadyExists}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrStorageFailure    = &Error{Kind: KindStorageFailure}
)

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func invalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func alreadyExists(msg string) error {
	return &Error{Kind: KindAlreadyExists, Message: msg}
}

func insufficientFunds(msg string) error {
	return &Error{Kind: KindInsufficientFunds, Message: msg}
}

func storageFailure(msg string, err error) error {
	return &Error{Kind: KindStorageFailure, Message: msg, Err: err}
}

// KindOf reports the kind of a service error. Errors that did not come from
// this package are treated as storage failures.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorageFailure
}

// Reason returns the human-readable part of a service error
func Reason(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return "internal error"
}

// report audits a failed operation and hands the error back. Storage failures
// are audited at ERROR severity, business rejections at WARN.
func report(a *audit.Logger, operation string, accountID int64, err error) error {
	if KindOf(err) == KindStorageFailure {
		log.Printf("[%s] Storage failure for account %d: %v", strings.ToUpper(operation), accountID, err)
		a.LogError(operation, accountID, err)
		return err
	}
	a.LogRejection(operation, accountID, string(KindOf(err)), Reason(err))
	return err
}
