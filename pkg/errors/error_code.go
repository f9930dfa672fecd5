package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSignal        ErrorCode = 102
	ErrCodeInvalidOrder         ErrorCode = 103
	ErrCodeInsufficientData     ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeFieldNotFound         ErrorCode = 203
	ErrCodeMisalignedData        ErrorCode = 204
	ErrCodeInstrumentNotFound    ErrorCode = 205
	ErrCodeMalformedData         ErrorCode = 206

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded    ErrorCode = 400
	ErrCodeStrategyRuntimeError ErrorCode = 401
	ErrCodeUnsupportedStrategy  ErrorCode = 402

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed   ErrorCode = 600
	ErrCodeBacktestConfigError  ErrorCode = 601
	ErrCodeBacktestNoStrategies ErrorCode = 602
	ErrCodeBacktestNoDataPaths  ErrorCode = 603
	ErrCodeBacktestNoResultsDir ErrorCode = 604
	ErrCodeBacktestNoDatasource ErrorCode = 605
	ErrCodeBacktestCancelled    ErrorCode = 606
	ErrCodeBacktestWriteFailed  ErrorCode = 607
	ErrCodeIncompatibleStats    ErrorCode = 608

	// Performance errors (700-799)
	ErrCodeIndexMismatch ErrorCode = 700
	ErrCodeEmptyHistory  ErrorCode = 701
)
