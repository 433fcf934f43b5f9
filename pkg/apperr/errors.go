// SPDX-License-Identifier: MIT

package apperr

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is a domain failure raised by application code. Key selects the
// catalog entry; Args are substituted positionally into its message template.
type Error struct {
	Key   string
	Args  []string
	Cause error
}

// New raises a domain error for key with optional message arguments.
func New(key string, args ...string) *Error {
	return &Error{Key: key, Args: args}
}

// Wrap raises a domain error for key that records cause for logging.
func Wrap(cause error, key string, args ...string) *Error {
	return &Error{Key: key, Args: args, Cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Cause)
	}
	return e.Key
}

func (e *Error) Unwrap() error { return e.Cause }

// ValidationError reports request fields that failed validation, in the
// order the validator reported them.
type ValidationError struct {
	Fields []string
	Cause  error
}

// NewValidation builds a ValidationError for the offending fields.
func NewValidation(cause error, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Cause: cause}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// BadRequestKind distinguishes the malformed-request causes. All kinds map to
// the same catalog entry; the kind is kept for logs.
type BadRequestKind int

const (
	KindMethodNotAllowed BadRequestKind = iota + 1
	KindUnsupportedMediaType
	KindNotAcceptable
	KindMissingPathVariable
	KindMissingParameter
	KindRequestBinding
	KindConversionNotSupported
	KindTypeMismatch
	KindUnreadableBody
	KindMissingPart
)

func (k BadRequestKind) String() string {
	switch k {
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindUnsupportedMediaType:
		return "unsupported_media_type"
	case KindNotAcceptable:
		return "not_acceptable"
	case KindMissingPathVariable:
		return "missing_path_variable"
	case KindMissingParameter:
		return "missing_parameter"
	case KindRequestBinding:
		return "request_binding"
	case KindConversionNotSupported:
		return "conversion_not_supported"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindUnreadableBody:
		return "unreadable_body"
	case KindMissingPart:
		return "missing_part"
	default:
		return "unknown"
	}
}

// BadRequestError is a malformed-request fault detected while binding.
type BadRequestError struct {
	Kind   BadRequestKind
	Detail string
	Cause  error
}

// BadRequest builds a BadRequestError. cause may be nil.
func BadRequest(kind BadRequestKind, detail string, cause error) *BadRequestError {
	return &BadRequestError{Kind: kind, Detail: detail, Cause: cause}
}

func (e *BadRequestError) Error() string {
	msg := "bad request (" + e.Kind.String() + ")"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *BadRequestError) Unwrap() error { return e.Cause }

// NotFoundError reports that no route or resource matched the request.
type NotFoundError struct {
	Method string
	Path   string
}

// NotFound builds a NotFoundError for r.
func NotFound(r *http.Request) *NotFoundError {
	return &NotFoundError{Method: r.Method, Path: r.URL.Path}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no handler found for %s %s", e.Method, e.Path)
}
