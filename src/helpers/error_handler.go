package helpers

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golden-cross/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks.
type ConfigurationError struct{ DashboardError }
type ValidationError struct{ DashboardError }
type CacheError struct{ DashboardError }

// NoDataFoundError means the request was valid but the provider had nothing
// for that ticker and range.
type NoDataFoundError struct {
	DashboardError
	Ticker string
}

// FetchFailedError means the provider call itself failed (network, rate
// limit, malformed ticker, undecodable payload).
type FetchFailedError struct {
	DashboardError
	Ticker string
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewNoDataFound(ticker string) error {
	return &NoDataFoundError{
		DashboardError: DashboardError{Message: fmt.Sprintf("no data found for %s", ticker)},
		Ticker:         ticker,
	}
}

func NewFetchFailed(ticker string, cause error) error {
	return &FetchFailedError{
		DashboardError: DashboardError{Message: fmt.Sprintf("fetch %s failed", ticker), Cause: cause},
		Ticker:         ticker,
	}
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{DashboardError{Message: fmt.Sprintf(format, args...)}}
}

func NewConfigurationError(message string, cause error) error {
	return &ConfigurationError{DashboardError{Message: message, Cause: cause}}
}

func NewCacheError(message string, cause error) error {
	return &CacheError{DashboardError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

func IsNoData(err error) bool {
	var target *NoDataFoundError
	return errors.As(err, &target)
}

func IsFetchFailed(err error) bool {
	var target *FetchFailedError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// FetchFailureCause returns the provider-facing cause text of a fetch
// failure, or the full error text for anything else.
func FetchFailureCause(err error) string {
	var target *FetchFailedError
	if errors.As(err, &target) && target.Cause != nil {
		return target.Cause.Error()
	}
	return err.Error()
}

// -----------------------------------------------------------------------------
// Adapter Boundary
// -----------------------------------------------------------------------------

// AsAdapterError converts anything a provider returned into one of the two
// adapter errors. Errors that already carry a classification pass through.
func AsAdapterError(ticker string, err error) error {
	if err == nil {
		return nil
	}
	if IsNoData(err) || IsFetchFailed(err) {
		return err
	}
	return NewFetchFailed(ticker, err)
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	errorCount atomic.Int64
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.errorCount.Store(0)
}

// -----------------------------------------------------------------------------

// ErrorCount returns the number of unexpected errors handled since the
// last reset.
func (e *ErrorHandler) ErrorCount() int64 {
	return e.errorCount.Load()
}

// -----------------------------------------------------------------------------

// Handle logs err under context at a level matching its class. No data is
// an expected outcome and is not counted.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	switch {
	case IsNoData(err):
		e.Logger.Info("%s: %v", context, err)
	case IsValidation(err):
		e.Logger.Warning("%s: %v", context, err)
	default:
		e.errorCount.Add(1)
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
