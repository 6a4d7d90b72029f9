package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199). These are detected before any symbol
	// is processed and are fatal for the whole run.
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeMissingCredentials   ErrorCode = 101
	ErrCodeStoreUnreachable     ErrorCode = 102
	ErrCodeInvalidParameter     ErrorCode = 103
	ErrCodeInvalidPeriod        ErrorCode = 104

	// Provider errors (200-299). A provider failure skips the affected
	// symbol; the batch continues.
	ErrCodeFetchFailed      ErrorCode = 200
	ErrCodeTickerListFailed ErrorCode = 201

	// Store errors (300-399). A store failure aborts only the affected
	// symbol's read or write.
	ErrCodeStoreQueryFailed ErrorCode = 300
	ErrCodeStoreWriteFailed ErrorCode = 301
	ErrCodeStoreInitFailed  ErrorCode = 302

	// Data integrity errors (400-499). The offending row is dropped and
	// processing continues for the rest of the series.
	ErrCodeInvalidTimestamp ErrorCode = 400
	ErrCodeInvalidValue     ErrorCode = 401

	// Indicator errors (500-599)
	ErrCodeInsufficientData ErrorCode = 500
	ErrCodeSeriesMismatch   ErrorCode = 501

	// Delivery errors (600-699)
	ErrCodeWebhookFailed ErrorCode = 600
)
