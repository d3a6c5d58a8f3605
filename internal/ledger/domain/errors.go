package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrFundNotFound is returned when a fund lookup matches no active fund.
	ErrFundNotFound = errors.New("fund not found")

	// ErrVersionConflict signals the optimistic lock lost a race. The
	// service retries the whole mutation; callers only see it once the
	// retry budget is exhausted.
	ErrVersionConflict = errors.New("fund modified concurrently")
)

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientFundsError rejects a debit that exceeds the available
// sub-balance. Carries the figures the caller surfaces to the user.
type InsufficientFundsError struct {
	Category  FundCategory
	Method    PaymentMethod
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s balance in %s fund: available %s, required %s",
		e.Method, e.Category, e.Available, e.Required)
}

// InvariantViolationError means a persisted balance disagrees with the
// transaction snapshot that should justify it. The mutation that detects
// it is rolled back; history is never rewritten to paper over it.
type InvariantViolationError struct {
	FundID int64
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("fund %d ledger invariant violated: %s", e.FundID, e.Detail)
}
