package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnalyze/internal/store"
)

func newTypesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the distinct transaction types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, typ := range s.UniqueTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), typ)
			}
			return nil
		},
	}
}

func newTotalCommand(opts *options) *cobra.Command {
	var filter store.DateFilter

	cmd := &cobra.Command{
		Use:   "total",
		Short: "Sum transaction amounts, optionally for a year, month or day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Month < 0 || filter.Month > 12 {
				return fmt.Errorf("--month must be between 1 and 12, got %d", filter.Month)
			}
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			total := s.TotalAmount()
			if !filter.IsEmpty() {
				total = s.TotalAmountOnDate(filter)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatAmount(total))
			return nil
		},
	}

	cmd.Flags().IntVar(&filter.Year, "year", 0, "only count this year")
	cmd.Flags().IntVar(&filter.Month, "month", 0, "only count this month (1-12)")
	cmd.Flags().IntVar(&filter.Day, "day", 0, "only count this day of month")

	return cmd
}

func newAverageCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "average",
		Short: "Print the average transaction amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatAmount(s.AverageAmount()))
			return nil
		},
	}
}

func newDebitTotalCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "debit-total",
		Short: "Sum the amounts of debit transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatAmount(s.TotalDebitAmount()))
			return nil
		},
	}
}

func newDominantCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dominant",
		Short: "Report whether debits or credits are more frequent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.DominantType())
			return nil
		},
	}
}

func newDescriptionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "descriptions",
		Short: "Print every transaction description in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, d := range s.Descriptions() {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
