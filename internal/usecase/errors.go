package usecase

import (
	"errors"
	"fmt"
)

// Kind classifies operation failures so callers can react without string
// matching.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindAlreadyExists
	KindDuplicateAsset
	KindUnauthorized
	KindPreconditionFailed
	KindLedgerFailure
	KindExternalIO
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindDuplicateAsset:
		return "duplicate asset"
	case KindUnauthorized:
		return "unauthorized"
	case KindPreconditionFailed:
		return "precondition failed"
	case KindLedgerFailure:
		return "ledger failure"
	case KindExternalIO:
		return "external io failure"
	default:
		return "unknown"
	}
}

// Error is the failure value returned by every public operation. A
// DuplicateAsset error carries the conflicting record so the caller does
// not need a second query.
type Error struct {
	Kind     Kind
	Msg      string
	Conflict *DigitalAsset
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure kind from any error returned by this
// package. Errors from other packages map to KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ConflictOf returns the conflicting asset carried by a DuplicateAsset
// error, or nil.
func ConflictOf(err error) *DigitalAsset {
	var e *Error
	if errors.As(err, &e) {
		return e.Conflict
	}
	return nil
}
