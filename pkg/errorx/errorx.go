package errorx

import (
	"errors"
	"fmt"
)

// CodeError carries a business code alongside the message and an
// optional wrapped cause, so it survives errors.Is/errors.As chains.
type CodeError struct {
	Code  int
	Msg   string
	cause error
}

func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without a cause.
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a business code and message to an underlying error.
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), cause: err}
}

// GetCode extracts the business code, defaulting to CodeServerBusy.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business codes.
const (
	CodeSuccess      = 1000
	CodeInvalidParam = 1001
	CodeServerBusy   = 1005
	CodeUnauthorized = 1006
	CodeForbidden    = 1007
	CodeNotFound     = 1008
	CodeConflict     = 1009
	CodeDBError      = 1010
	CodeCacheError   = 1011
)

var (
	ErrNotFound  = New(CodeNotFound, "resource not found")
	ErrForbidden = New(CodeForbidden, "forbidden")
)

// IsNotFound reports whether err carries CodeNotFound, the code the
// repository layer tags gorm record-not-found errors with.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeNotFound
}
