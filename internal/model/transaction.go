package model

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known transaction types.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// DateLayouts lists the accepted formats for Transaction.Date, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// Transaction is one record of the dataset.
//
// Amount and Date hold the source text as loaded. They are parsed on demand so a
// malformed value reaches the queries instead of failing the load.
type Transaction struct {
	ID          string `json:"transaction_id"`
	Type        string `json:"transaction_type"`
	Amount      string `json:"transaction_amount"`
	Date        string `json:"transaction_date"`
	Description string `json:"transaction_description"`
	Merchant    string `json:"merchant_name"`
}

// AmountValue parses Amount. It reports false when the text is not a number.
func (t Transaction) AmountValue() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(t.Amount))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountFloat returns Amount as a float64, or NaN when it does not parse.
func (t Transaction) AmountFloat() float64 {
	d, ok := t.AmountValue()
	if !ok {
		return math.NaN()
	}
	return d.InexactFloat64()
}

// DateValue parses Date as a UTC calendar date (time of day dropped).
func (t Transaction) DateValue() (time.Time, bool) {
	return ParseDate(t.Date)
}

// ParseDate parses s with the first matching entry of DateLayouts and
// truncates it to midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			d = d.UTC()
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
