// Package synerr defines the engine's error kinds and their mapping onto
// gRPC status codes. Every error a component returns is one of these kinds
// so the adapters in internal/flightsql and internal/engineservice can
// translate it without guessing at intent.
package synerr

import "fmt"

// Kind classifies an error the way spec.md section 7 enumerates them.
type Kind int

const (
	KindUnknown Kind = iota
	KindCatalogNotFound
	KindSchemaNotFound
	KindTableNotFound
	KindAlreadyExists
	KindInvalidToken
	KindMissingEndpoint
	KindMissingTicket
	KindDecodeError
	KindServerError
	KindUnimplemented
	KindPlan
	KindStreamError
	KindInvalidArgument // e.g. or_replace + if_not_exists both set
)

func (k Kind) String() string {
	switch k {
	case KindCatalogNotFound:
		return "CatalogNotFound"
	case KindSchemaNotFound:
		return "SchemaNotFound"
	case KindTableNotFound:
		return "TableNotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindInvalidToken:
		return "InvalidToken"
	case KindMissingEndpoint:
		return "MissingEndpoint"
	case KindMissingTicket:
		return "MissingTicket"
	case KindDecodeError:
		return "DecodeError"
	case KindServerError:
		return "ServerError"
	case KindUnimplemented:
		return "Unimplemented"
	case KindPlan:
		return "Plan"
	case KindStreamError:
		return "StreamError"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is the engine's typed error. Subject carries the name/ref the error
// is about (catalog name, table ref string, verb name, ...).
type Error struct {
	Kind    Kind
	Subject string
	Cause   error
}

func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

func Wrap(kind Kind, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		if e.Subject == "" {
			return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("%s(%s): %v", e.Kind, e.Subject, e.Cause)
	}
	if e.Subject == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.Subject)
}

func (e *Error) Unwrap() error { return e.Cause }

func CatalogNotFound(name string) *Error  { return New(KindCatalogNotFound, name) }
func SchemaNotFound(name string) *Error   { return New(KindSchemaNotFound, name) }
func TableNotFound(ref string) *Error     { return New(KindTableNotFound, ref) }
func AlreadyExists(ref string) *Error     { return New(KindAlreadyExists, ref) }
func InvalidToken() *Error                { return New(KindInvalidToken, "") }
func MissingEndpoint() *Error              { return New(KindMissingEndpoint, "") }
func MissingTicket() *Error                 { return New(KindMissingTicket, "") }
func Unimplemented(verb string) *Error     { return New(KindUnimplemented, verb) }
func InvalidArgument(msg string) *Error   { return New(KindInvalidArgument, msg) }

func DecodeError(reason string, cause error) *Error {
	return Wrap(KindDecodeError, reason, cause)
}

func Plan(reason string, cause error) *Error {
	return Wrap(KindPlan, reason, cause)
}

func StreamError(reason string, cause error) *Error {
	return Wrap(KindStreamError, reason, cause)
}

func ServerError(cause error) *Error {
	return Wrap(KindServerError, "", cause)
}

// Is reports whether err is a *Error of the given kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if se, ok := err.(*Error); ok {
			e = se
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
