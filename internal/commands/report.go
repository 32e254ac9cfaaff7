package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnalyze/internal/config"
	"github.com/cleared-dev/txnalyze/internal/model"
	"github.com/cleared-dev/txnalyze/internal/store"
)

// Report is every query answered with the configured report parameters.
type Report struct {
	UniqueTypes          []string            `json:"unique_types"`
	TotalAmount          *float64            `json:"total_amount"`
	TotalAmountOnDate    *float64            `json:"total_amount_on_date"`
	Debits               []model.Transaction `json:"debits"`
	InDateRange          []model.Transaction `json:"in_date_range"`
	ByMerchant           []model.Transaction `json:"by_merchant"`
	AverageAmount        *float64            `json:"average_amount"`
	ByAmountRange        []model.Transaction `json:"by_amount_range"`
	TotalDebitAmount     *float64            `json:"total_debit_amount"`
	MostActiveMonth      int                 `json:"most_active_month,omitempty"`
	MostActiveDebitMonth int                 `json:"most_active_debit_month,omitempty"`
	DominantType         string              `json:"dominant_type"`
	Before               []model.Transaction `json:"before"`
	Found                *model.Transaction  `json:"found"`
	Descriptions         []string            `json:"descriptions"`

	average, total, onDate, debitTotal float64
}

// BuildReport runs every query against s.
func BuildReport(s *store.Store, rc config.ReportConfig) (*Report, error) {
	start, err := parseReportDate("range_start", rc.RangeStart)
	if err != nil {
		return nil, err
	}
	end, err := parseReportDate("range_end", rc.RangeEnd)
	if err != nil {
		return nil, err
	}
	before, err := parseReportDate("before", rc.Before)
	if err != nil {
		return nil, err
	}

	r := &Report{
		UniqueTypes:   s.UniqueTypes(),
		Debits:        s.ByType(model.TypeDebit),
		InDateRange:   s.InDateRange(start, end),
		ByMerchant:    s.ByMerchant(rc.Merchant),
		ByAmountRange: s.ByAmountRange(rc.MinAmount, rc.MaxAmount),
		DominantType:  s.DominantType(),
		Before:        s.Before(before),
		Descriptions:  s.Descriptions(),
		total:         s.TotalAmount(),
		onDate:        s.TotalAmountOnDate(store.DateFilter{Year: rc.Year, Month: rc.Month, Day: rc.Day}),
		average:       s.AverageAmount(),
		debitTotal:    s.TotalDebitAmount(),
	}
	r.TotalAmount = jsonAmount(r.total)
	r.TotalAmountOnDate = jsonAmount(r.onDate)
	r.AverageAmount = jsonAmount(r.average)
	r.TotalDebitAmount = jsonAmount(r.debitTotal)

	if m, err := s.MostActiveMonth(); err == nil {
		r.MostActiveMonth = int(m)
	} else if !errors.Is(err, store.ErrNoTransactions) {
		return nil, err
	}
	if m, err := s.MostActiveDebitMonth(); err == nil {
		r.MostActiveDebitMonth = int(m)
	} else if !errors.Is(err, store.ErrNoTransactions) {
		return nil, err
	}
	if t, ok := s.FindByID(rc.FindID); ok {
		r.Found = &t
	}
	return r, nil
}

func parseReportDate(name, value string) (time.Time, error) {
	d, ok := model.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("report.%s: invalid date %q", name, value)
	}
	return d, nil
}

// Write prints the report as labelled sections.
func (r *Report) Write(w io.Writer, rc config.ReportConfig) error {
	month := func(m int) string {
		if m == 0 {
			return "none"
		}
		return formatMonth(time.Month(m))
	}

	fmt.Fprintf(w, "Unique transaction types: %v\n", r.UniqueTypes)
	fmt.Fprintf(w, "Total amount: %s\n", formatAmount(r.total))
	fmt.Fprintf(w, "Total amount on %04d-%02d-%02d: %s\n", rc.Year, rc.Month, rc.Day, formatAmount(r.onDate))
	if err := writeSection(w, "Debit transactions", r.Debits); err != nil {
		return err
	}
	if err := writeSection(w, fmt.Sprintf("Transactions from %s to %s", rc.RangeStart, rc.RangeEnd), r.InDateRange); err != nil {
		return err
	}
	if err := writeSection(w, fmt.Sprintf("Transactions at %s", rc.Merchant), r.ByMerchant); err != nil {
		return err
	}
	fmt.Fprintf(w, "Average amount: %s\n", formatAmount(r.average))
	if err := writeSection(w, fmt.Sprintf("Transactions between %s and %s", formatAmount(rc.MinAmount), formatAmount(rc.MaxAmount)), r.ByAmountRange); err != nil {
		return err
	}
	fmt.Fprintf(w, "Total debit amount: %s\n", formatAmount(r.debitTotal))
	fmt.Fprintf(w, "Most active month: %s\n", month(r.MostActiveMonth))
	fmt.Fprintf(w, "Most active debit month: %s\n", month(r.MostActiveDebitMonth))
	fmt.Fprintf(w, "Dominant type: %s\n", r.DominantType)
	if err := writeSection(w, fmt.Sprintf("Transactions before %s", rc.Before), r.Before); err != nil {
		return err
	}
	if r.Found != nil {
		if err := writeSection(w, fmt.Sprintf("Transaction %s", rc.FindID), []model.Transaction{*r.Found}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Transaction %s: not found\n", rc.FindID)
	}
	fmt.Fprintln(w, "Descriptions:")
	for _, d := range r.Descriptions {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}

func writeSection(w io.Writer, title string, txns []model.Transaction) error {
	fmt.Fprintf(w, "%s (%d):\n", title, len(txns))
	if len(txns) == 0 {
		return nil
	}
	return writeTable(w, txns)
}

func newReportCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every query with the parameters from the report config section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			r, err := BuildReport(s, cfg.Report)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			return r.Write(cmd.OutOrStdout(), cfg.Report)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
