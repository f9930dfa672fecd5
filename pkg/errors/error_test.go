package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestConstructors() {
	cause := errors.New("disk full")

	tests := []struct {
		name    string
		err     *Error
		code    ErrorCode
		message string
		cause   error
		text    string
	}{
		{
			name:    "new",
			err:     New(ErrCodeInvalidSignal, "ratio out of range"),
			code:    ErrCodeInvalidSignal,
			message: "ratio out of range",
			text:    "[102] ratio out of range",
		},
		{
			name:    "newf",
			err:     Newf(ErrCodeFieldNotFound, "field %s not found for %s", "close", "A"),
			code:    ErrCodeFieldNotFound,
			message: "field close not found for A",
			text:    "[203] field close not found for A",
		},
		{
			name:    "wrap",
			err:     Wrap(ErrCodeBacktestWriteFailed, "failed to write stats", cause),
			code:    ErrCodeBacktestWriteFailed,
			message: "failed to write stats",
			cause:   cause,
			text:    "[607] failed to write stats: disk full",
		},
		{
			name:    "wrapf",
			err:     Wrapf(ErrCodeDataNotFound, cause, "no data for %s", "600030.SH"),
			code:    ErrCodeDataNotFound,
			message: "no data for 600030.SH",
			cause:   cause,
			text:    "[200] no data for 600030.SH: disk full",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.code, tc.err.Code)
			suite.Equal(tc.message, tc.err.Message)
			suite.Equal(tc.cause, tc.err.Unwrap())
			suite.Equal(tc.text, tc.err.Error())
		})
	}
}

func (suite *ErrorTestSuite) TestGetCode() {
	coded := New(ErrCodeInsufficientData, "MA-long needs 30 rows, got 3")

	suite.Equal(ErrCodeInsufficientData, GetCode(coded))
	suite.Equal(ErrCodeInsufficientData, GetCode(fmt.Errorf("failed to apply MA-long: %w", coded)))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))

	// the outermost coded error wins
	outer := Wrap(ErrCodeStrategyRuntimeError, "strategy failed", coded)
	suite.Equal(ErrCodeStrategyRuntimeError, GetCode(outer))
	suite.True(errors.Is(outer, coded))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeIndexMismatch, "benchmark index differs")

	suite.True(HasCode(err, ErrCodeIndexMismatch))
	suite.False(HasCode(err, ErrCodeMisalignedData))
}

func (suite *ErrorTestSuite) TestErrorCodeRanges() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(102), ErrCodeInvalidSignal)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(400), ErrCodeStrategyNotLoaded)
	suite.Equal(ErrorCode(600), ErrCodeBacktestInitFailed)
	suite.Equal(ErrorCode(608), ErrCodeIncompatibleStats)
	suite.Equal(ErrorCode(700), ErrCodeIndexMismatch)
}
