package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCompareCmd(flags *loanFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare annuity and differentiated payments for the same loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := flags.request()
			if err != nil {
				return err
			}

			svc, err := newService(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := svc.Compare(cmd.Context(), request)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tAnnuity\tDifferentiated")
			fmt.Fprintf(w, "First payment\t%s\t%s\n",
				firstPayment(result.Annuity.PaymentSchedule), firstPayment(result.Differentiated.PaymentSchedule))
			fmt.Fprintf(w, "Total payments\t%s\t%s\n",
				result.Annuity.TotalPayments.StringFixed(2), result.Differentiated.TotalPayments.StringFixed(2))
			fmt.Fprintf(w, "Total interest\t%s\t%s\n",
				result.Annuity.TotalInterest.StringFixed(2), result.Differentiated.TotalInterest.StringFixed(2))
			fmt.Fprintf(w, "Effective term\t%d\t%d\n",
				result.Annuity.EffectiveTerm, result.Differentiated.EffectiveTerm)
			if err := w.Flush(); err != nil {
				return err
			}

			if result.CheaperType == "" {
				fmt.Fprintln(out, "Both payment types cost the same interest")
				return nil
			}
			fmt.Fprintf(out, "%s saves %s in interest\n", result.CheaperType, result.InterestDifference.Abs().StringFixed(2))
			return nil
		},
	}
}

func newOverpaymentCmd(flags *loanFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "overpayment",
		Short: "Show how much interest the loan costs on top of the principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := flags.request()
			if err != nil {
				return err
			}

			svc, err := newService(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := svc.Overpayment(cmd.Context(), request)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Effective loan amount:\t%s\n", result.EffectiveLoanAmount.StringFixed(2))
			fmt.Fprintf(w, "Monthly payment:\t%s\n", result.MonthlyPayment.StringFixed(2))
			fmt.Fprintf(w, "Overpayment:\t%s (%s%%)\n", result.OverpaymentAmount.StringFixed(2), result.OverpaymentPercentage.StringFixed(2))
			fmt.Fprintf(w, "Total cost:\t%s\n", result.TotalCost.StringFixed(2))
			fmt.Fprintf(w, "Effective term:\t%d months\n", result.EffectiveTerm)
			return w.Flush()
		},
	}
}
