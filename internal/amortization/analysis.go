package amortization

import (
	"github.com/segyhp/loan-engine/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Overpayment computes the schedule for input and reports what the borrower
// pays on top of the amortized principal.
func Overpayment(input domain.LoanInput) (domain.OverpaymentResult, error) {
	result, err := Compute(input)
	if err != nil {
		return domain.OverpaymentResult{}, err
	}

	effective := input.Principal()
	percentage := decimal.Zero
	if effective.IsPositive() {
		percentage = result.TotalInterest.Div(effective).Mul(hundred)
	}

	return domain.OverpaymentResult{
		LoanAmount:            input.LoanAmount,
		EffectiveLoanAmount:   effective,
		DownPayment:           input.DownPayment,
		TermMonths:            input.TermMonths,
		InterestRate:          input.InterestRate,
		MonthlyPayment:        result.MonthlyPayment,
		TotalPayments:         result.TotalPayments,
		TotalInterest:         result.TotalInterest,
		EffectiveTerm:         result.EffectiveTerm,
		OverpaymentAmount:     result.TotalInterest,
		OverpaymentPercentage: percentage,
		TotalCost:             input.LoanAmount.Add(result.TotalInterest),
		PrincipalPaid:         effective,
		InterestPaid:          result.TotalInterest,
	}, nil
}

// Compare runs both payment types over the same terms. The payment type set
// on input is ignored.
func Compare(input domain.LoanInput) (domain.ComparisonResult, error) {
	input.PaymentType = domain.PaymentTypeAnnuity
	annuity, err := Compute(input)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	input.PaymentType = domain.PaymentTypeDifferentiated
	differentiated, err := Compute(input)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	diff := annuity.TotalInterest.Sub(differentiated.TotalInterest)
	comparison := domain.ComparisonResult{
		Annuity:            annuity,
		Differentiated:     differentiated,
		InterestDifference: diff,
	}
	switch diff.Sign() {
	case 1:
		comparison.CheaperType = domain.PaymentTypeDifferentiated
	case -1:
		comparison.CheaperType = domain.PaymentTypeAnnuity
	}

	return comparison, nil
}
