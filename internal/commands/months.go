package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnalyze/internal/model"
	"github.com/cleared-dev/txnalyze/internal/store"
)

func newMonthsCommand(opts *options) *cobra.Command {
	var debitOnly bool

	cmd := &cobra.Command{
		Use:   "months",
		Short: "Count transactions per calendar month and show the busiest one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}

			counts := s.MonthCounts()
			best, bestErr := s.MostActiveMonth()
			if debitOnly {
				counts = store.CountByMonth(s.ByType(model.TypeDebit))
				best, bestErr = s.MostActiveDebitMonth()
			}
			if bestErr != nil && !errors.Is(bestErr, store.ErrNoTransactions) {
				return bestErr
			}

			out := cmd.OutOrStdout()
			for m := time.January; m <= time.December; m++ {
				if counts[m] > 0 {
					fmt.Fprintf(out, "%2d %-9s %d\n", int(m), m, counts[m])
				}
			}
			if bestErr != nil {
				fmt.Fprintln(out, "most active: none")
				return nil
			}
			fmt.Fprintf(out, "most active: %s\n", formatMonth(best))
			return nil
		},
	}

	cmd.Flags().BoolVar(&debitOnly, "debit", false, "only count debit transactions")

	return cmd
}
