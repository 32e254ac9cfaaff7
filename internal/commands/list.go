package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnalyze/internal/model"
	"github.com/cleared-dev/txnalyze/internal/store"
)

type listFilters struct {
	typ      string
	merchant string
	from     string
	to       string
	before   string
	min      float64
	max      float64
}

func newListCommand(opts *options) *cobra.Command {
	var f listFilters
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, narrowed by any combination of filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("min") {
				f.min = math.Inf(-1)
			}
			if !flags.Changed("max") {
				f.max = math.Inf(1)
			}

			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			txns, err := applyFilters(s, f, flags.Changed("min") || flags.Changed("max"))
			if err != nil {
				return err
			}
			return writeTransactions(cmd.OutOrStdout(), txns, asJSON)
		},
	}

	cmd.Flags().StringVar(&f.typ, "type", "", "exact transaction type")
	cmd.Flags().StringVar(&f.merchant, "merchant", "", "exact merchant name")
	cmd.Flags().StringVar(&f.from, "from", "", "first date of range (inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date of range (inclusive)")
	cmd.Flags().StringVar(&f.before, "before", "", "only transactions strictly before this date")
	cmd.Flags().Float64Var(&f.min, "min", 0, "minimum amount (inclusive)")
	cmd.Flags().Float64Var(&f.max, "max", 0, "maximum amount (inclusive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

// applyFilters narrows s one filter at a time, rebuilding a store over each result.
func applyFilters(s *store.Store, f listFilters, byAmount bool) ([]model.Transaction, error) {
	if f.typ != "" {
		s = store.New(s.ByType(f.typ))
	}
	if f.merchant != "" {
		s = store.New(s.ByMerchant(f.merchant))
	}
	if f.from != "" || f.to != "" {
		start, end := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		var err error
		if f.from != "" {
			if start, err = parseDateFlag("from", f.from); err != nil {
				return nil, err
			}
		}
		if f.to != "" {
			if end, err = parseDateFlag("to", f.to); err != nil {
				return nil, err
			}
		}
		s = store.New(s.InDateRange(start, end))
	}
	if f.before != "" {
		d, err := parseDateFlag("before", f.before)
		if err != nil {
			return nil, err
		}
		s = store.New(s.Before(d))
	}
	if byAmount {
		s = store.New(s.ByAmountRange(f.min, f.max))
	}
	return s.All(), nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	d, ok := model.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --%s date %q", name, value)
	}
	return d, nil
}

func newFindCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "find <id>",
		Short: "Show the first transaction with the given ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			t, ok := s.FindByID(args[0])
			if !ok {
				return fmt.Errorf("transaction %q not found", args[0])
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			return writeTable(cmd.OutOrStdout(), []model.Transaction{t})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
