// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99)
//   - Validation errors (100-199): capital, position fraction, horizon, signal values
//   - Series shape errors (200-299): misaligned or empty price/signal series, missing columns
//   - Data/Resource errors (300-399): price loading and query failures
//   - Indicator errors (400-499): indicator registry and calculation errors
//   - Report errors (500-599): report persistence and compatibility
//   - Backtest errors (600-699): a backtest that stopped unexpectedly
//   - Market data errors (700-799): provider download errors
//
// Only structural problems are reported as errors. Business-level degeneracies such as
// "no trades" or "no signals" resolve to zero or sentinel values instead.
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeColumnNotFound, "column %s not found", name)
//	if errors.HasCode(err, errors.ErrCodeColumnNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// AlignmentError reports ErrCodeAlignment. Anything else that is not an *Error
// reports ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	if IsAlignmentError(err) {
		return ErrCodeAlignment
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// AlignmentError is returned when a price series and a signal series do not share
// the same date index. It is fatal: the caller must re-align before calling again.
type AlignmentError struct {
	Column      string // signal column being aligned
	PriceLen    int    // number of price bars
	SignalLen   int    // number of signal values
	MismatchIdx int    // first index whose dates differ, -1 when only the lengths differ
}

// NewAlignmentError creates a new AlignmentError.
func NewAlignmentError(column string, priceLen, signalLen, mismatchIdx int) *AlignmentError {
	return &AlignmentError{
		Column:      column,
		PriceLen:    priceLen,
		SignalLen:   signalLen,
		MismatchIdx: mismatchIdx,
	}
}

// Error implements the error interface.
func (e *AlignmentError) Error() string {
	if e.MismatchIdx >= 0 {
		return fmt.Sprintf("[%d] signal %q is not aligned with prices: dates differ at index %d",
			ErrCodeAlignment, e.Column, e.MismatchIdx)
	}

	return fmt.Sprintf("[%d] signal %q is not aligned with prices: %d price bars, %d signal values",
		ErrCodeAlignment, e.Column, e.PriceLen, e.SignalLen)
}

// IsAlignmentError checks if an error is an AlignmentError.
// It uses errors.As to check the error chain.
func IsAlignmentError(err error) bool {
	var alignmentErr *AlignmentError

	return errors.As(err, &alignmentErr)
}
