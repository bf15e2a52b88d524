package datasource

import (
	"errors"
	"fmt"
)

// ErrorKind categorises a DAL failure without exposing driver-specific codes.
type ErrorKind int

const (
	KindUnknown           ErrorKind = iota
	KindConnectivity                // could not reach or authenticate to the engine
	KindQuery                       // the engine rejected the SQL
	KindContractViolation           // the engine answered with an unexpected shape
	KindInvalidInput                // the caller passed a value that cannot be used safely
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindQuery:
		return "query_failed"
	case KindContractViolation:
		return "contract_violation"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Connection and DB operations.
// Adapters translate their driver errors into Error before returning them.
type Error struct {
	Kind    ErrorKind
	Op      string // operation that failed, e.g. "oracle.GetNumOfRows"
	Message string
	Cause   error // original driver error, if any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConnectivityError reports an authentication or network failure.
func NewConnectivityError(op, msg string, cause error) *Error {
	return &Error{Kind: KindConnectivity, Op: op, Message: msg, Cause: cause}
}

// NewQueryError reports SQL the engine could not execute.
func NewQueryError(op, msg string, cause error) *Error {
	return &Error{Kind: KindQuery, Op: op, Message: msg, Cause: cause}
}

// NewContractViolation reports a response shape the adapter does not understand.
func NewContractViolation(op, format string, args ...any) *Error {
	return &Error{Kind: KindContractViolation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidInput reports a caller-supplied value that was refused.
func NewInvalidInput(op, msg string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Message: msg, Cause: cause}
}

// IsConnectivity reports whether err is an authentication or network failure.
func IsConnectivity(err error) bool {
	return KindOf(err) == KindConnectivity
}

// IsQuery reports whether err is a SQL execution failure.
func IsQuery(err error) bool {
	return KindOf(err) == KindQuery
}

// IsContractViolation reports whether err means the engine returned a shape
// the adapter does not support.
func IsContractViolation(err error) bool {
	return KindOf(err) == KindContractViolation
}

// IsInvalidInput reports whether err was caused by a refused caller value.
func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

// KindOf returns the ErrorKind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var dalErr *Error
	if errors.As(err, &dalErr) {
		return dalErr.Kind
	}
	return KindUnknown
}
