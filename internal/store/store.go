package store

import (
	"errors"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnalyze/internal/model"
)

// Results of DominantType.
const (
	DominantDebit  = model.TypeDebit
	DominantCredit = model.TypeCredit
	DominantEqual  = "equal"
)

// ErrNoTransactions is returned by the month queries when there is nothing to group.
var ErrNoTransactions = errors.New("no dated transactions")

// Store holds transactions in insertion order and answers queries over them.
// Every query is a linear scan; nothing is indexed.
type Store struct {
	mu   sync.RWMutex
	txns []model.Transaction
}

// New creates a Store from an initial set of transactions. The slice is copied.
func New(txns []model.Transaction) *Store {
	return &Store{txns: slices.Clone(txns)}
}

// Append adds t to the end of the store.
func (s *Store) Append(t model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, t)
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txns)
}

// All returns every transaction in stored order.
func (s *Store) All() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.txns)
}

// UniqueTypes returns the distinct transaction types in first-seen order.
func (s *Store) UniqueTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, t := range s.txns {
		if !seen[t.Type] {
			seen[t.Type] = true
			types = append(types, t.Type)
		}
	}
	return types
}

// TotalAmount sums every amount. An empty store totals 0; a malformed amount makes it NaN.
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Sum(s.txns)
}

// DateFilter selects dates by component. A zero field matches any value.
type DateFilter struct {
	Year  int
	Month int // 1-12
	Day   int
}

// IsEmpty reports whether no component is set.
func (f DateFilter) IsEmpty() bool {
	return f.Year == 0 && f.Month == 0 && f.Day == 0
}

// Match reports whether d satisfies every set component.
func (f DateFilter) Match(d time.Time) bool {
	if f.Year != 0 && d.Year() != f.Year {
		return false
	}
	if f.Month != 0 && int(d.Month()) != f.Month {
		return false
	}
	if f.Day != 0 && d.Day() != f.Day {
		return false
	}
	return true
}

// TotalAmountOnDate sums the amounts of transactions whose date matches f.
// Undated transactions only count when f is empty.
func (s *Store) TotalAmountOnDate(f DateFilter) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f.IsEmpty() {
		return Sum(s.txns)
	}
	return Sum(s.filter(func(t model.Transaction) bool {
		d, ok := t.DateValue()
		return ok && f.Match(d)
	}))
}

// ByType returns transactions whose type equals typ exactly.
func (s *Store) ByType(typ string) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byType(typ)
}

// InDateRange returns transactions dated within [start, end].
func (s *Store) InDateRange(start, end time.Time) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t model.Transaction) bool {
		d, ok := t.DateValue()
		return ok && !d.Before(start) && !d.After(end)
	})
}

// ByMerchant returns transactions whose merchant equals name exactly.
func (s *Store) ByMerchant(name string) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t model.Transaction) bool {
		return t.Merchant == name
	})
}

// AverageAmount returns TotalAmount divided by the record count.
// It is NaN for an empty store.
func (s *Store) AverageAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.txns) == 0 {
		return math.NaN()
	}
	return Sum(s.txns) / float64(len(s.txns))
}

// ByAmountRange returns transactions with minAmount <= amount <= maxAmount.
func (s *Store) ByAmountRange(minAmount, maxAmount float64) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t model.Transaction) bool {
		a := t.AmountFloat()
		return a >= minAmount && a <= maxAmount
	})
}

// TotalDebitAmount sums the amounts of debit transactions.
func (s *Store) TotalDebitAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Sum(s.byType(model.TypeDebit))
}

// MonthCounts counts dated transactions per calendar month across all years.
func (s *Store) MonthCounts() map[time.Month]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CountByMonth(s.txns)
}

// MostActiveMonth returns the month with the most transactions.
func (s *Store) MostActiveMonth() (time.Month, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostActive(CountByMonth(s.txns))
}

// MostActiveDebitMonth returns the month with the most debit transactions.
func (s *Store) MostActiveDebitMonth() (time.Month, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostActive(CountByMonth(s.byType(model.TypeDebit)))
}

// DominantType compares debit and credit counts. Other types are ignored.
func (s *Store) DominantType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var debits, credits int
	for _, t := range s.txns {
		switch t.Type {
		case model.TypeDebit:
			debits++
		case model.TypeCredit:
			credits++
		}
	}
	switch {
	case debits > credits:
		return DominantDebit
	case credits > debits:
		return DominantCredit
	default:
		return DominantEqual
	}
}

// Before returns transactions dated strictly earlier than date.
func (s *Store) Before(date time.Time) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t model.Transaction) bool {
		d, ok := t.DateValue()
		return ok && d.Before(date)
	})
}

// FindByID returns the first transaction with the given ID.
func (s *Store) FindByID(id string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.txns {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// Descriptions returns the description of every transaction in stored order.
func (s *Store) Descriptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.txns))
	for i, t := range s.txns {
		out[i] = t.Description
	}
	return out
}

func (s *Store) byType(typ string) []model.Transaction {
	return s.filter(func(t model.Transaction) bool {
		return t.Type == typ
	})
}

// filter must be called with s.mu held.
func (s *Store) filter(keep func(model.Transaction) bool) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sum adds up the amounts of txns. It returns NaN if any amount does not parse.
func Sum(txns []model.Transaction) float64 {
	total := decimal.Zero
	for _, t := range txns {
		a, ok := t.AmountValue()
		if !ok {
			return math.NaN()
		}
		total = total.Add(a)
	}
	return total.InexactFloat64()
}

// CountByMonth groups txns by calendar month, ignoring the year.
// Transactions without a valid date are skipped.
func CountByMonth(txns []model.Transaction) map[time.Month]int {
	counts := make(map[time.Month]int)
	for _, t := range txns {
		if d, ok := t.DateValue(); ok {
			counts[d.Month()]++
		}
	}
	return counts
}

// mostActive picks the highest count; the lowest month number wins a tie.
func mostActive(counts map[time.Month]int) (time.Month, error) {
	var best time.Month
	for m := time.January; m <= time.December; m++ {
		if counts[m] > 0 && (best == 0 || counts[m] > counts[best]) {
			best = m
		}
	}
	if best == 0 {
		return 0, ErrNoTransactions
	}
	return best, nil
}
