package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/cleared-dev/txnalyze/internal/model"
)

// formatAmount prints a float the shortest exact way; NaN prints as "NaN".
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// jsonAmount maps NaN and infinities to null, which encoding/json cannot encode.
func jsonAmount(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func formatMonth(m time.Month) string {
	return fmt.Sprintf("%d (%s)", int(m), m)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeTable prints transactions as aligned columns.
func writeTable(w io.Writer, txns []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tMERCHANT\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Type, t.Amount, t.Merchant, t.Description)
	}
	return tw.Flush()
}

// writeTransactions prints txns as JSON or as a table.
func writeTransactions(w io.Writer, txns []model.Transaction, asJSON bool) error {
	if asJSON {
		if txns == nil {
			txns = []model.Transaction{}
		}
		return writeJSON(w, txns)
	}
	return writeTable(w, txns)
}
