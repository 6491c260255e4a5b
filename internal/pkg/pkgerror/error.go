package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels returned by storage layers and translated by the usecases.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)

// Type groups errors by who is at fault.
type Type int

const (
	TypeServer     Type = iota // infrastructure failed
	TypeBusiness               // request was well formed but not allowed
	TypeValidation             // request was malformed
)

//nolint:gochecknoglobals // lookup table
var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code identifies the failure precisely enough to pick an HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeUnauthorized
	CodeTooManyRequests
)

type codeInfo struct {
	name   string
	status int
}

//nolint:gochecknoglobals // lookup table
var codes = map[Code]codeInfo{
	CodeInternal:        {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:   {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:    {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:        {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:        {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnauthorized:    {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeTooManyRequests: {"ERROR_CODE_TOO_MANY_REQUESTS", http.StatusTooManyRequests},
}

func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return codes[CodeInternal].name
}

// Error is the error type handlers render to clients. msg is safe to show;
// the wrapped err is for logs only.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	default:
		return e.code.String()
	}
}

// String is the verbose form used in server logs.
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

// Fields holds per-field validation messages keyed by field name.
func (e *Error) Fields() map[string]string {
	return e.fields
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) StatusCode() int {
	if info, ok := codes[e.code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

func NewConflict(msg string) error {
	return NewBusiness(msg, CodeConflict)
}

func NewUnauthorized(msg string) error {
	return NewBusiness(msg, CodeUnauthorized)
}

func NewNotFound(msg string) error {
	return NewBusiness(msg, CodeNotFound)
}

func NewTooManyRequests() error {
	return NewBusiness("too many requests", CodeTooManyRequests)
}

// NewInvalidFormat reports a body that could not be decoded at all.
func NewInvalidFormat() error {
	return &Error{msg: "invalid request body", errType: TypeValidation, code: CodeInvalidFormat}
}

func NewInvalidInput(err error) error {
	return &Error{err: err, msg: "validation error", errType: TypeValidation, code: CodeInvalidInput}
}

// NewValidation is NewInvalidInput with per-field messages.
func NewValidation(err error, fields map[string]string) error {
	return &Error{err: err, msg: "validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}
