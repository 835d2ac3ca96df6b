package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain errors
var (
	ErrCalculationNotFound = errors.New("calculation not found")
	ErrInvalidLoanInput    = errors.New("invalid loan input")
	ErrUnknownPaymentType  = errors.New("unknown payment type")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeCalculationNotFound = "CALCULATION_NOT_FOUND"
	ErrCodeInvalidLoanInput    = "INVALID_LOAN_INPUT"
	ErrCodeUnknownPaymentType  = "UNKNOWN_PAYMENT_TYPE"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// HTTPStatus maps an error onto the status code a handler should reply with
func HTTPStatus(err error) int {
	var be *BusinessError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}

	switch be.Code {
	case ErrCodeInvalidLoanInput, ErrCodeUnknownPaymentType:
		return http.StatusBadRequest
	case ErrCodeCalculationNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Wrap common errors with business context
func WrapCalculationNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeCalculationNotFound,
		fmt.Sprintf("Calculation with ID %s not found", id),
		ErrCalculationNotFound,
	)
}

func WrapInvalidLoanInput(details []string) *BusinessError {
	be := NewBusinessError(
		ErrCodeInvalidLoanInput,
		strings.Join(details, "; "),
		ErrInvalidLoanInput,
	)
	be.Details = details
	return be
}

func WrapUnknownPaymentType(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeUnknownPaymentType,
		"payment type must be annuity or differentiated",
		errors.Join(ErrUnknownPaymentType, err),
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
