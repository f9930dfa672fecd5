// Package errors carries an ErrorCode alongside every failure of the backtester so callers can
// branch on the kind of failure without matching message text.
//
//	err := errors.Newf(errors.ErrCodeInvalidSignal, "exit ratio %v is outside [0, 1]", ratio)
//	if errors.HasCode(err, errors.ErrCodeInvalidSignal) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is a failure tagged with an ErrorCode. Cause is optional.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap tags cause with code. The result unwraps to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code of the first *Error in err's chain, or ErrCodeUnknown when there is
// none. Codes of errors wrapped inside that *Error are not consulted.
func GetCode(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	return ErrCodeUnknown
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
