package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/segyhp/loan-engine/internal/config"
	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/service"
	"github.com/segyhp/loan-engine/pkg/logger"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// loanFlags holds the raw command line values shared by every subcommand
type loanFlags struct {
	amount      string
	down        string
	years       int
	months      int
	rate        string
	extra       string
	paymentType string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	flags := &loanFlags{}

	rootCmd := &cobra.Command{
		Use:          "loancalc",
		Short:        "Loan amortization calculator",
		Long:         `Computes annuity and differentiated payment schedules, overpayment and comparisons for a loan.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.amount, "amount", "", "loan amount (required)")
	pf.StringVar(&flags.down, "down", "0", "down payment")
	pf.IntVar(&flags.years, "years", 0, "term in years")
	pf.IntVar(&flags.months, "months", 0, "additional term in months")
	pf.StringVar(&flags.rate, "rate", "0", "annual interest rate in percent")
	pf.StringVar(&flags.extra, "extra", "0", "additional monthly payment")
	pf.StringVarP(&flags.paymentType, "type", "t", "", "payment type: annuity or differentiated")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("amount")

	rootCmd.AddCommand(
		newScheduleCmd(flags),
		newCompareCmd(flags),
		newOverpaymentCmd(flags),
	)

	return rootCmd
}

// newService builds a calculator with no storage behind it
func newService(flags *loanFlags, errOut io.Writer) (*service.CalculatorService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	log := logger.NewWithOutput(config.LoggingConfig{Level: level, Format: "text"}, errOut)

	return service.NewCalculatorService(nil, nil, cfg, log), nil
}

func (f *loanFlags) request() (*domain.CalculateLoanRequest, error) {
	amount, err := parseAmount("amount", f.amount)
	if err != nil {
		return nil, err
	}
	down, err := parseAmount("down", f.down)
	if err != nil {
		return nil, err
	}
	rate, err := parseAmount("rate", f.rate)
	if err != nil {
		return nil, err
	}
	extra, err := parseAmount("extra", f.extra)
	if err != nil {
		return nil, err
	}

	return &domain.CalculateLoanRequest{
		LoanAmount:        amount,
		DownPayment:       down,
		TermYears:         f.years,
		TermMonths:        f.months,
		InterestRate:      rate,
		AdditionalPayment: extra,
		PaymentType:       f.paymentType,
	}, nil
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := utils.DecimalFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}
