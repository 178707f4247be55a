package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an error for the HTTP boundary and for logging.
type Kind string

const (
	KindValidation        Kind = "validation_failed"
	KindConflict          Kind = "conflict"
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindInvalidCredential Kind = "invalid_credential"
	KindBadRequest        Kind = "bad_request"
	KindStoreUnavailable  Kind = "store_unavailable"
	KindInternal          Kind = "internal"
)

// Status returns the fixed HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict, KindInvalidCredential, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is the structured error returned by validators, repositories and services.
// Fields carries client-facing field level detail; Err is the wrapped cause and is
// never serialized.
type Error struct {
	Kind   Kind
	Op     string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so sentinel comparisons like
// errors.Is(err, apperror.ErrNotFound) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Fields == nil && t.Err == nil && t.Kind == e.Kind
}

// Sentinels, one per kind.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential}
	ErrBadRequest        = &Error{Kind: KindBadRequest}
	ErrStoreUnavailable  = &Error{Kind: KindStoreUnavailable}
	ErrInternal          = &Error{Kind: KindInternal}
)

func New(kind Kind, op string, fields map[string]string) *Error {
	return &Error{Kind: kind, Op: op, Fields: fields}
}

// Wrap attaches a kind and operation to err. An *Error is re-tagged with op only
// when it has none yet, keeping the innermost kind.
func Wrap(kind Kind, op string, err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Op == "" {
			cp := *ae
			cp.Op = op
			return &cp
		}
		return ae
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op string, fields map[string]string) *Error {
	return New(KindValidation, op, fields)
}

func Field(kind Kind, op, field, msg string) *Error {
	return New(kind, op, map[string]string{field: msg})
}

// KindOf reports the kind of err, KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// FieldsOf returns the client-facing field map, or nil.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
