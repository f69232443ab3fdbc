package domain

import "fmt"

// Error types for consistent error handling across the service.

// ErrNoTransactions indicates the requested pocket has no data in the window.
type ErrNoTransactions struct {
	PocketID string
}

func (e *ErrNoTransactions) Error() string {
	return fmt.Sprintf("No transactions found for pocket_id: %s in the specified date range", e.PocketID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUnavailable indicates an optional feature is not configured.
type ErrUnavailable struct {
	Feature string
	Hint    string
}

func (e *ErrUnavailable) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s is not available. %s", e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s is not available", e.Feature)
}
