package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by stores when a key has no entry.
var ErrNotFound = errors.New("resource not found")

// Type groups errors by who is at fault.
type Type int

const (
	TypeServer     Type = iota // failure inside the service
	TypeBusiness               // request was valid but the ledger cannot satisfy it
	TypeValidation             // request was malformed
)

func (t Type) String() string {
	switch t {
	case TypeServer:
		return "server"
	case TypeBusiness:
		return "business"
	case TypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Code is the stable identifier clients see in error responses.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "invalid_format"
	case CodeInvalidInput:
		return "invalid_input"
	case CodeNotFound:
		return "not_found"
	case CodeConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode maps c to the HTTP status returned by the router.
func (c Code) StatusCode() int {
	switch c {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error. Msg is safe to show to API clients; the
// wrapped error is only meant for logs.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

func (e *Error) Error() string {
	switch {
	case e.err != nil && e.msg != "":
		return e.msg + ": " + e.err.Error()
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	default:
		return e.code.String()
	}
}

// String is the verbose form used in debug logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string {
	return e.msg
}

func (e *Error) Type() Type {
	return e.errType
}

func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) StatusCode() int {
	return e.code.StatusCode()
}

// As reports whether err wraps an *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "internal server error", errType: TypeServer, code: CodeInternal}
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewNotFound reports that what does not exist, e.g. NewNotFound("account").
func NewNotFound(what string) error {
	return NewBusiness(what+" not found", CodeNotFound)
}

// NewInvalidInput reports a request whose shape is fine but whose values are
// not; err describes the offending value.
func NewInvalidInput(err error) error {
	msg := "invalid input"
	if err != nil {
		msg = err.Error()
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidInput}
}

func NewInvalidFormat() error {
	return &Error{msg: "invalid request body", errType: TypeValidation, code: CodeInvalidFormat}
}
