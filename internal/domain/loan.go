package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentType selects the amortization algorithm
type PaymentType string

const (
	PaymentTypeAnnuity        PaymentType = "annuity"
	PaymentTypeDifferentiated PaymentType = "differentiated"
)

// ErrUnknownPaymentType is returned for any payment type outside the enum
var ErrUnknownPaymentType = errors.New("unknown payment type")

// PaymentTypes lists every supported payment type
func PaymentTypes() []PaymentType {
	return []PaymentType{PaymentTypeAnnuity, PaymentTypeDifferentiated}
}

// ParsePaymentType converts a raw string into a PaymentType
func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentTypeAnnuity:
		return PaymentTypeAnnuity, nil
	case PaymentTypeDifferentiated:
		return PaymentTypeDifferentiated, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentType, s)
}

// IsValid reports whether p is one of the known payment types
func (p PaymentType) IsValid() bool {
	_, err := ParsePaymentType(string(p))
	return err == nil
}

func (p PaymentType) String() string {
	return string(p)
}

// UnmarshalJSON rejects payment types outside the enum
func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*p = ""
		return nil
	}
	parsed, err := ParsePaymentType(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// LoanInput holds validated loan terms consumed by the amortization engine
type LoanInput struct {
	LoanAmount        decimal.Decimal `json:"loan_amount"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	TermMonths        int             `json:"term_months"`
	InterestRate      decimal.Decimal `json:"interest_rate"` // nominal annual percent, 12.5 means 12.5%
	AdditionalPayment decimal.Decimal `json:"additional_payment"`
	PaymentType       PaymentType     `json:"payment_type"`
}

// Principal returns the amount to amortize after the down payment
func (in LoanInput) Principal() decimal.Decimal {
	return in.LoanAmount.Sub(in.DownPayment)
}

// MonthlyRate converts the annual percentage rate into a monthly fraction
func (in LoanInput) MonthlyRate() decimal.Decimal {
	return in.InterestRate.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
}

// LoanResult is the engine output for a single invocation
type LoanResult struct {
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	TotalPayments   decimal.Decimal `json:"total_payments"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	EffectiveTerm   int             `json:"effective_term"`
	PaymentSchedule []ScheduleEntry `json:"payment_schedule"`
}

// Round returns a copy with every monetary value rounded to places.
// Used only at the presentation boundary.
func (r LoanResult) Round(places int32) LoanResult {
	rounded := LoanResult{
		MonthlyPayment:  r.MonthlyPayment.Round(places),
		TotalPayments:   r.TotalPayments.Round(places),
		TotalInterest:   r.TotalInterest.Round(places),
		EffectiveTerm:   r.EffectiveTerm,
		PaymentSchedule: make([]ScheduleEntry, len(r.PaymentSchedule)),
	}
	for i, entry := range r.PaymentSchedule {
		rounded.PaymentSchedule[i] = entry.Round(places)
	}
	return rounded
}

// OverpaymentResult describes how much the borrower pays on top of the principal
type OverpaymentResult struct {
	LoanAmount            decimal.Decimal `json:"loan_amount"`
	EffectiveLoanAmount   decimal.Decimal `json:"effective_loan_amount"`
	DownPayment           decimal.Decimal `json:"down_payment"`
	TermMonths            int             `json:"term_months"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	MonthlyPayment        decimal.Decimal `json:"monthly_payment"`
	TotalPayments         decimal.Decimal `json:"total_payments"`
	TotalInterest         decimal.Decimal `json:"total_interest"`
	EffectiveTerm         int             `json:"effective_term"`
	OverpaymentAmount     decimal.Decimal `json:"overpayment_amount"`
	OverpaymentPercentage decimal.Decimal `json:"overpayment_percentage"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	PrincipalPaid         decimal.Decimal `json:"principal_paid"`
	InterestPaid          decimal.Decimal `json:"interest_paid"`
}

// Round returns a copy with monetary values rounded to places
func (r OverpaymentResult) Round(places int32) OverpaymentResult {
	r.LoanAmount = r.LoanAmount.Round(places)
	r.EffectiveLoanAmount = r.EffectiveLoanAmount.Round(places)
	r.DownPayment = r.DownPayment.Round(places)
	r.MonthlyPayment = r.MonthlyPayment.Round(places)
	r.TotalPayments = r.TotalPayments.Round(places)
	r.TotalInterest = r.TotalInterest.Round(places)
	r.OverpaymentAmount = r.OverpaymentAmount.Round(places)
	r.OverpaymentPercentage = r.OverpaymentPercentage.Round(places)
	r.TotalCost = r.TotalCost.Round(places)
	r.PrincipalPaid = r.PrincipalPaid.Round(places)
	r.InterestPaid = r.InterestPaid.Round(places)
	return r
}

// ComparisonResult puts both payment types side by side for the same terms
type ComparisonResult struct {
	Annuity            LoanResult      `json:"annuity"`
	Differentiated     LoanResult      `json:"differentiated"`
	InterestDifference decimal.Decimal `json:"interest_difference"` // annuity minus differentiated
	CheaperType        PaymentType     `json:"cheaper_type,omitempty"`
}

// Round returns a copy with monetary values rounded to places
func (c ComparisonResult) Round(places int32) ComparisonResult {
	return ComparisonResult{
		Annuity:            c.Annuity.Round(places),
		Differentiated:     c.Differentiated.Round(places),
		InterestDifference: c.InterestDifference.Round(places),
		CheaperType:        c.CheaperType,
	}
}
