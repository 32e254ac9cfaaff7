package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/txnalyze/internal/model"
)

// Column names shared by the CSV and SQL sources.
const (
	ColID          = "transaction_id"
	ColType        = "transaction_type"
	ColAmount      = "transaction_amount"
	ColDate        = "transaction_date"
	ColDescription = "transaction_description"
	ColMerchant    = "merchant_name"
)

// Columns lists the dataset columns in canonical order.
var Columns = []string{ColID, ColType, ColAmount, ColDate, ColDescription, ColMerchant}

// CSVParser reads a CSV file whose header names the dataset columns in any order.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads r into Transactions. Only transaction_id is a required column.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index[ColID]; !ok {
		return nil, fmt.Errorf("missing %s column", ColID)
	}
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	field := func(rec []string, col string) string {
		if i, ok := index[col]; ok {
			return rec[i]
		}
		return ""
	}

	txns := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		txns = append(txns, model.Transaction{
			ID:          field(rec, ColID),
			Type:        field(rec, ColType),
			Amount:      field(rec, ColAmount),
			Date:        field(rec, ColDate),
			Description: field(rec, ColDescription),
			Merchant:    field(rec, ColMerchant),
		})
	}
	return txns, nil
}

// WriteCSV writes txns with a canonical header.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		row := []string{t.ID, t.Type, t.Amount, t.Date, t.Description, t.Merchant}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
