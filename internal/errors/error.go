// Package errors provides the error kinds used across the catalog and the sentinel errors built on them.
package errors

import "errors"

// Kind classifies an error for the transport boundary.
type Kind uint8

const (
	KindUnclassified Kind = iota
	KindValidation
	KindNotFound
	KindExists
	// KindConstraint is a raw uniqueness violation coming from a store.
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindExists:
		return "exists"
	case KindConstraint:
		return "constraint"
	default:
		return "unclassified"
	}
}

// Error is an error with a Kind attached.
type Error struct {
	kind Kind
	msg  string
}

// New creates an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

var (
	ErrProductNotFound = New(KindNotFound, "Product Not Found")
	ErrProductExists   = New(KindExists, "There is already a product with that name")
	ErrUniqueViolation = New(KindConstraint, "unique constraint violation")
)

type kinded interface {
	error
	Kind() Kind
}

// KindOf returns the kind of the first error in err's chain that has one.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnclassified
}

// Message returns the message of the first kinded error in err's chain,
// falling back to err.Error() when there is none.
func Message(err error) string {
	var k kinded
	if errors.As(err, &k) {
		return k.Error()
	}
	return err.Error()
}
