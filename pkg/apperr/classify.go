// SPDX-License-Identifier: MIT

package apperr

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Class is the category of a fault at the HTTP boundary.
type Class int

const (
	// ClassUnclassified is any fault not recognised below.
	ClassUnclassified Class = iota
	// ClassDomain is an *Error raised by application code.
	ClassDomain
	// ClassValidation is a field-level validation failure.
	ClassValidation
	// ClassBadRequest groups the malformed-request faults.
	ClassBadRequest
	// ClassNotFound means no route or resource matched.
	ClassNotFound
)

func (c Class) String() string {
	switch c {
	case ClassDomain:
		return "domain"
	case ClassValidation:
		return "validation"
	case ClassBadRequest:
		return "bad_request"
	case ClassNotFound:
		return "not_found"
	default:
		return "unclassified"
	}
}

// Fault is the classified form of an error: the catalog key to resolve plus
// whatever the payload needs from the original error.
type Fault struct {
	Class  Class
	Key    string
	Args   []string // ClassDomain only
	Fields []string // ClassValidation only
	Err    error
}

// Classify maps err to its Fault. A domain error anywhere in the chain takes
// precedence over framework faults wrapped alongside it.
func Classify(err error) Fault {
	var (
		domain     *Error
		validation *ValidationError
		fieldErrs  validator.ValidationErrors
		badRequest *BadRequestError
		maxBytes   *http.MaxBytesError
		notFound   *NotFoundError
	)

	switch {
	case err == nil:
		return Fault{Class: ClassUnclassified, Key: KeyServiceUnavailable}
	case errors.As(err, &domain):
		return Fault{Class: ClassDomain, Key: domain.Key, Args: domain.Args, Err: err}
	case errors.As(err, &validation):
		return Fault{Class: ClassValidation, Key: KeyValidation, Fields: validation.Fields, Err: err}
	case errors.As(err, &fieldErrs):
		return Fault{Class: ClassValidation, Key: KeyValidation, Fields: FieldNames(fieldErrs), Err: err}
	case errors.As(err, &badRequest), errors.As(err, &maxBytes):
		return Fault{Class: ClassBadRequest, Key: KeyBadRequest, Err: err}
	case errors.As(err, &notFound):
		return Fault{Class: ClassNotFound, Key: KeyNotFound, Err: err}
	default:
		return Fault{Class: ClassUnclassified, Key: KeyServiceUnavailable, Err: err}
	}
}

// FieldNames returns the field names of errs in reported order.
func FieldNames(errs validator.ValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field())
	}
	return fields
}
