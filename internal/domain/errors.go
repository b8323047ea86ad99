package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Each AnalysisError unwraps to one of these,
// so callers can branch with errors.Is while still showing Message verbatim.
var (
	ErrFutureDate       = errors.New("future date")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrInsufficientData = errors.New("insufficient data")
	ErrTickerNotFound   = errors.New("ticker not found")
	ErrDataSource       = errors.New("data source unavailable")
	ErrInvalidRequest   = errors.New("invalid request")
)

type AnalysisError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newAnalysisError(kind error, format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func FutureDateError(today string) error {
	return newAnalysisError(ErrFutureDate, "Future dates are not allowed. Please choose a date on or before %s.", today)
}

func InvalidRangeError() error {
	return newAnalysisError(ErrInvalidRange, "dateFrom must be earlier than dateTo")
}

func InsufficientDataError(message string) error {
	return newAnalysisError(ErrInsufficientData, "%s", message)
}

func TickerNotFoundError(ticker string) error {
	return newAnalysisError(ErrTickerNotFound, "Ticker %s was not found in CSV for selected date range.", ticker)
}

func InvalidRequestError(message string) error {
	return newAnalysisError(ErrInvalidRequest, "%s", message)
}

// DataSourceError marks err as a failure of an external news, price or feature source.
func DataSourceError(source string, err error) error {
	return &AnalysisError{Kind: ErrDataSource, Message: source + " source unavailable", Err: err}
}

// UserMessage returns the caller-facing text for a domain error and reports
// whether err carries one of the domain kinds.
func UserMessage(err error) (string, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Message, true
	}
	return "", false
}
