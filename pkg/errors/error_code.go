package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter        ErrorCode = 100
	ErrCodeInvalidConfiguration    ErrorCode = 101
	ErrCodeMissingParameter        ErrorCode = 102
	ErrCodeInvalidCapital          ErrorCode = 103
	ErrCodeInvalidPositionFraction ErrorCode = 104
	ErrCodeInvalidHorizon          ErrorCode = 105
	ErrCodeInvalidPeriod           ErrorCode = 106
	ErrCodeInvalidSignalValue      ErrorCode = 107
	ErrCodeInvalidType             ErrorCode = 108
	ErrCodeInvalidMultiplier       ErrorCode = 109

	// Series shape errors (200-299)
	ErrCodeAlignment      ErrorCode = 200
	ErrCodeEmptySeries    ErrorCode = 201
	ErrCodeColumnNotFound ErrorCode = 202
	ErrCodeColumnExists   ErrorCode = 203
	ErrCodeUnorderedDates ErrorCode = 204

	// Data/Resource errors (300-399)
	ErrCodeDataNotFound          ErrorCode = 300
	ErrCodeDataSourceUnavailable ErrorCode = 301
	ErrCodeQueryFailed           ErrorCode = 302

	// Indicator errors (400-499)
	ErrCodeIndicatorNotFound      ErrorCode = 400
	ErrCodeIndicatorAlreadyExists ErrorCode = 401
	ErrCodeIndicatorCalculation   ErrorCode = 402

	// Report errors (500-599)
	ErrCodeReportWriteFailed ErrorCode = 500
	ErrCodeReportReadFailed  ErrorCode = 501
	ErrCodeVersionMismatch   ErrorCode = 502

	// Backtest errors (600-699)
	ErrCodeBacktestFailed ErrorCode = 600

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeInvalidProvider       ErrorCode = 702
)
