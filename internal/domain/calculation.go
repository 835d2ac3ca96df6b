package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Calculation represents a stored loan calculation
type Calculation struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	InputHash         string          `json:"-" db:"input_hash"`
	LoanAmount        decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	DownPayment       decimal.Decimal `json:"down_payment" db:"down_payment"`
	TermMonths        int             `json:"term_months" db:"term_months"`
	InterestRate      decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	AdditionalPayment decimal.Decimal `json:"additional_payment" db:"additional_payment"`
	PaymentType       PaymentType     `json:"payment_type" db:"payment_type"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment" db:"monthly_payment"`
	TotalPayments     decimal.Decimal `json:"total_payments" db:"total_payments"`
	TotalInterest     decimal.Decimal `json:"total_interest" db:"total_interest"`
	EffectiveTerm     int             `json:"effective_term" db:"effective_term"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`

	Schedule []ScheduleEntry `json:"payment_schedule" db:"-"`
}

// NewCalculation builds a calculation record from the engine input and result
func NewCalculation(input LoanInput, result LoanResult, inputHash string, createdAt time.Time) *Calculation {
	return &Calculation{
		ID:                uuid.New(),
		InputHash:         inputHash,
		LoanAmount:        input.LoanAmount,
		DownPayment:       input.DownPayment,
		TermMonths:        input.TermMonths,
		InterestRate:      input.InterestRate,
		AdditionalPayment: input.AdditionalPayment,
		PaymentType:       input.PaymentType,
		MonthlyPayment:    result.MonthlyPayment,
		TotalPayments:     result.TotalPayments,
		TotalInterest:     result.TotalInterest,
		EffectiveTerm:     result.EffectiveTerm,
		CreatedAt:         createdAt,
		Schedule:          result.PaymentSchedule,
	}
}

// DTOs for requests and responses

type CalculateLoanRequest struct {
	LoanAmount        decimal.Decimal `json:"loan_amount" validate:"decimal_gt=0"`
	DownPayment       decimal.Decimal `json:"down_payment" validate:"decimal_gte=0"`
	TermYears         int             `json:"term_years" validate:"gte=0"`
	TermMonths        int             `json:"term_months" validate:"gte=0"`
	InterestRate      decimal.Decimal `json:"interest_rate" validate:"decimal_gte=0"`
	AdditionalPayment decimal.Decimal `json:"additional_payment" validate:"decimal_gte=0"`
	PaymentType       string          `json:"payment_type"`
}

type ScheduleResponse struct {
	CalculationID uuid.UUID       `json:"calculation_id"`
	Schedule      []ScheduleEntry `json:"schedule"`
}
