// Package amortization builds month-by-month loan repayment schedules.
//
// All arithmetic is carried out on decimal.Decimal without intermediate
// rounding. Callers round at the presentation boundary.
package amortization

import (
	"fmt"

	"github.com/segyhp/loan-engine/internal/domain"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// scheduleFunc produces the nominal payment and the schedule for one payment type
type scheduleFunc func(principal, monthlyRate decimal.Decimal, months int, extra decimal.Decimal) (decimal.Decimal, []domain.ScheduleEntry)

// Compute builds the amortization schedule and totals for input.
//
// Zero principal or a non-positive term yields an empty result. An unknown
// payment type is a caller bug and is reported as domain.ErrUnknownPaymentType.
func Compute(input domain.LoanInput) (domain.LoanResult, error) {
	var build scheduleFunc
	switch input.PaymentType {
	case domain.PaymentTypeAnnuity:
		build = annuitySchedule
	case domain.PaymentTypeDifferentiated:
		build = differentiatedSchedule
	default:
		return domain.LoanResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownPaymentType, input.PaymentType)
	}

	principal := input.Principal()
	if !principal.IsPositive() || input.TermMonths <= 0 {
		return emptyResult(), nil
	}

	extra := decimal.Max(input.AdditionalPayment, decimal.Zero)
	nominal, schedule := build(principal, input.MonthlyRate(), input.TermMonths, extra)

	return summarize(nominal, schedule, extra), nil
}

// AnnuityPayment returns the constant monthly payment that retires principal
// over months at monthlyRate.
func AnnuityPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if monthlyRate.IsZero() {
		return principal.Div(n)
	}

	factor := one.Add(monthlyRate).Pow(n)
	return principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one))
}

func annuitySchedule(principal, monthlyRate decimal.Decimal, months int, extra decimal.Decimal) (decimal.Decimal, []domain.ScheduleEntry) {
	payment := AnnuityPayment(principal, monthlyRate, months)

	schedule := make([]domain.ScheduleEntry, 0, months)
	balance := principal
	for month := 1; month <= months && balance.IsPositive(); month++ {
		interest := balance.Mul(monthlyRate)
		reduction := payment.Sub(interest).Add(extra)

		balance, reduction = applyReduction(balance, reduction, month == months)
		schedule = append(schedule, domain.ScheduleEntry{
			Month:     month,
			Payment:   interest.Add(reduction),
			Interest:  interest,
			Principal: reduction,
			Balance:   balance,
		})
	}

	return payment, schedule
}

func differentiatedSchedule(principal, monthlyRate decimal.Decimal, months int, extra decimal.Decimal) (decimal.Decimal, []domain.ScheduleEntry) {
	basePrincipal := principal.Div(decimal.NewFromInt(int64(months)))

	schedule := make([]domain.ScheduleEntry, 0, months)
	balance := principal
	for month := 1; month <= months && balance.IsPositive(); month++ {
		interest := balance.Mul(monthlyRate)
		reduction := basePrincipal.Add(extra)

		balance, reduction = applyReduction(balance, reduction, month == months)
		schedule = append(schedule, domain.ScheduleEntry{
			Month:     month,
			Payment:   interest.Add(reduction),
			Interest:  interest,
			Principal: reduction,
			Balance:   balance,
		})
	}

	return principal.Mul(monthlyRate).Add(basePrincipal), schedule
}

// applyReduction lowers balance by reduction. The reduction is capped at the
// outstanding balance, and the final scheduled period always takes the whole
// remainder so the schedule closes at exactly zero.
func applyReduction(balance, reduction decimal.Decimal, final bool) (decimal.Decimal, decimal.Decimal) {
	if reduction.IsNegative() {
		reduction = decimal.Zero
	}
	if final || reduction.GreaterThanOrEqual(balance) {
		return decimal.Zero, balance
	}
	return balance.Sub(reduction), reduction
}

func summarize(nominal decimal.Decimal, schedule []domain.ScheduleEntry, extra decimal.Decimal) domain.LoanResult {
	result := domain.LoanResult{
		TotalPayments:   decimal.Zero,
		TotalInterest:   decimal.Zero,
		EffectiveTerm:   len(schedule),
		PaymentSchedule: schedule,
	}
	for _, entry := range schedule {
		result.TotalPayments = result.TotalPayments.Add(entry.Payment)
		result.TotalInterest = result.TotalInterest.Add(entry.Interest)
	}

	// Headline figure is what the borrower would pay without extra payments
	result.MonthlyPayment = nominal
	if extra.IsZero() && len(schedule) > 0 {
		result.MonthlyPayment = schedule[0].Payment
	}

	return result
}

func emptyResult() domain.LoanResult {
	return domain.LoanResult{
		MonthlyPayment:  decimal.Zero,
		TotalPayments:   decimal.Zero,
		TotalInterest:   decimal.Zero,
		EffectiveTerm:   0,
		PaymentSchedule: []domain.ScheduleEntry{},
	}
}
