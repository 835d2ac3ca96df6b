package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/segyhp/loan-engine/internal/domain"
)

func newScheduleCmd(flags *loanFlags) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the month by month payment schedule",
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

			result, err := svc.Preview(cmd.Context(), request)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSummary(out, result)
			fmt.Fprintln(out)
			return printSchedule(out, result.PaymentSchedule, rows)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "print only the first N rows (0 prints all)")
	return cmd
}

func printSummary(out io.Writer, result *domain.LoanResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Monthly payment:\t%s\n", result.MonthlyPayment.StringFixed(2))
	fmt.Fprintf(w, "Total payments:\t%s\n", result.TotalPayments.StringFixed(2))
	fmt.Fprintf(w, "Total interest:\t%s\n", result.TotalInterest.StringFixed(2))
	fmt.Fprintf(w, "Effective term:\t%d months\n", result.EffectiveTerm)
	_ = w.Flush()
}

func printSchedule(out io.Writer, schedule []domain.ScheduleEntry, rows int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Month\tPayment\tInterest\tPrincipal\tBalance\t")

	limit := len(schedule)
	if rows > 0 && rows < limit {
		limit = rows
	}
	for _, entry := range schedule[:limit] {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			entry.Month,
			entry.Payment.StringFixed(2),
			entry.Interest.StringFixed(2),
			entry.Principal.StringFixed(2),
			entry.Balance.StringFixed(2),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if limit < len(schedule) {
		fmt.Fprintf(out, "... %d more rows\n", len(schedule)-limit)
	}
	return nil
}

func firstPayment(schedule []domain.ScheduleEntry) string {
	if len(schedule) == 0 {
		return "-"
	}
	return schedule[0].Payment.StringFixed(2)
}
