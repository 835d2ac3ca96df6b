package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// BuildInput applies the business rules to a request and converts it into
// engine input. Every violated rule is reported, not just the first.
func (s *CalculatorService) BuildInput(request *domain.CalculateLoanRequest) (domain.LoanInput, error) {
	var violations []string

	if !request.LoanAmount.IsPositive() {
		violations = append(violations, "Loan amount must be greater than 0")
	}

	termMonths := utils.TotalTermMonths(request.TermYears, request.TermMonths)
	maxTerm := s.config.Business.MaxTermMonths
	if request.TermYears < 0 || request.TermMonths < 0 || termMonths < 1 || termMonths > maxTerm {
		violations = append(violations, fmt.Sprintf("Loan term must be between 1 and %d months", maxTerm))
	}

	maxRate := s.config.GetMaxInterestRate()
	if request.InterestRate.IsNegative() || request.InterestRate.GreaterThan(maxRate) {
		violations = append(violations, fmt.Sprintf("Interest rate must be between 0%% and %s%%", maxRate))
	}

	if request.DownPayment.IsNegative() {
		violations = append(violations, "Down payment cannot be negative")
	} else if request.LoanAmount.IsPositive() && request.DownPayment.GreaterThanOrEqual(request.LoanAmount) {
		violations = append(violations, "Down payment cannot be greater than or equal to loan amount")
	}

	if request.AdditionalPayment.IsNegative() {
		violations = append(violations, "Additional payment cannot be negative")
	}

	paymentType := s.config.GetDefaultPaymentType()
	if strings.TrimSpace(request.PaymentType) != "" {
		parsed, err := domain.ParsePaymentType(request.PaymentType)
		if err != nil {
			violations = append(violations, "Payment type must be annuity or differentiated")
		}
		paymentType = parsed
	}

	if len(violations) > 0 {
		return domain.LoanInput{}, customError.WrapInvalidLoanInput(violations)
	}

	return domain.LoanInput{
		LoanAmount:        request.LoanAmount,
		DownPayment:       decimal.Max(request.DownPayment, decimal.Zero),
		TermMonths:        termMonths,
		InterestRate:      request.InterestRate,
		AdditionalPayment: request.AdditionalPayment,
		PaymentType:       paymentType,
	}, nil
}
