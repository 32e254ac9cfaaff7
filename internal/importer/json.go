package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/txnalyze/internal/model"
)

// JSONParser reads an array of transaction objects.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

type jsonTransaction struct {
	ID          json.RawMessage `json:"transaction_id"`
	Type        string          `json:"transaction_type"`
	Amount      json.RawMessage `json:"transaction_amount"`
	Date        string          `json:"transaction_date"`
	Description string          `json:"transaction_description"`
	Merchant    string          `json:"merchant_name"`
}

// Parse decodes r into Transactions. IDs and amounts may be JSON strings or numbers.
func (p *JSONParser) Parse(r io.Reader) ([]model.Transaction, error) {
	var rows []jsonTransaction
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	txns := make([]model.Transaction, 0, len(rows))
	for i, row := range rows {
		id, err := scalarText(row.ID)
		if err != nil {
			return nil, fmt.Errorf("record %d: transaction_id: %w", i, err)
		}
		amount, err := scalarText(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("record %d: transaction_amount: %w", i, err)
		}
		txns = append(txns, model.Transaction{
			ID:          id,
			Type:        row.Type,
			Amount:      amount,
			Date:        row.Date,
			Description: row.Description,
			Merchant:    row.Merchant,
		})
	}
	return txns, nil
}

// scalarText returns a JSON string's value or a number's literal text.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}
