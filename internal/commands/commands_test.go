package commands_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnalyze/internal/model"
)

const dataset = "../../testdata/transactions.json"

func query(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := runTxnalyze(t, append(args, "--dataset", dataset)...)
	require.NoError(t, err)
	return out
}

func emptyDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	return path
}

func TestTypes(t *testing.T) {
	assert.Equal(t, "debit\ncredit\n", query(t, "types"))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, "375.5\n", query(t, "total"))
	assert.Equal(t, "100\n", query(t, "total", "--year", "2019", "--month", "1", "--day", "1"))
	assert.Equal(t, "30\n", query(t, "total", "--month", "2"))
	assert.Equal(t, "0\n", query(t, "total", "--year", "2020"))
}

func TestTotal_BadMonth(t *testing.T) {
	_, _, err := runTxnalyze(t, "total", "--month", "13", "--dataset", dataset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--month")
}

func TestAverageAndDebitTotal(t *testing.T) {
	assert.Equal(t, "75.1\n", query(t, "average"))
	assert.Equal(t, "295.5\n", query(t, "debit-total"))
}

func TestAverage_EmptyDatasetIsNaN(t *testing.T) {
	out, _, err := runTxnalyze(t, "average", "--dataset", emptyDataset(t))
	require.NoError(t, err)
	assert.Equal(t, "NaN\n", out)
}

func TestDominant(t *testing.T) {
	assert.Equal(t, "debit\n", query(t, "dominant"))

	out, _, err := runTxnalyze(t, "dominant", "--dataset", emptyDataset(t))
	require.NoError(t, err)
	assert.Equal(t, "equal\n", out)
}

func TestDescriptions(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(query(t, "descriptions")), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Payment for groceries", lines[0])
	assert.Equal(t, "Cashback", lines[4])
}

func listIDs(t *testing.T, args ...string) []string {
	t.Helper()
	out := query(t, append([]string{"list", "--json"}, args...)...)
	var txns []model.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txns))
	ids := make([]string, len(txns))
	for i, tx := range txns {
		ids[i] = tx.ID
	}
	return ids
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, listIDs(t))
	assert.Equal(t, []string{"1", "4"}, listIDs(t, "--merchant", "SuperMart"))
	assert.Equal(t, []string{"1", "4"}, listIDs(t, "--type", "debit", "--min", "80"))
	assert.Equal(t, []string{"2", "3"}, listIDs(t, "--from", "2019-01-02", "--to", "2019-01-03"))
	assert.Equal(t, []string{"4", "5"}, listIDs(t, "--from", "2019-01-04"))
	assert.Equal(t, []string{"1"}, listIDs(t, "--before", "2019-01-02"))
	assert.Equal(t, []string{"2", "5"}, listIDs(t, "--max", "50"))
	assert.Empty(t, listIDs(t, "--min", "150", "--max", "50"))
}

func TestList_Table(t *testing.T) {
	out := query(t, "list", "--merchant", "SuperMart")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Payment for groceries")
}

func TestList_BadDate(t *testing.T) {
	_, _, err := runTxnalyze(t, "list", "--from", "last week", "--dataset", dataset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --from date")
}

func TestFind(t *testing.T) {
	out := query(t, "find", "3", "--json")
	var got model.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "RestaurantABC", got.Merchant)
	assert.Equal(t, "75.50", got.Amount)

	_, _, err := runTxnalyze(t, "find", "99", "--dataset", dataset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `transaction "99" not found`)
}

func TestMonths(t *testing.T) {
	out := query(t, "months")
	assert.Contains(t, out, " 1 January   4\n")
	assert.Contains(t, out, " 2 February  1\n")
	assert.Contains(t, out, "most active: 1 (January)")

	out = query(t, "months", "--debit")
	assert.Contains(t, out, " 1 January   3\n")
	assert.NotContains(t, out, "February")
}

func TestMonths_Empty(t *testing.T) {
	out, _, err := runTxnalyze(t, "months", "--dataset", emptyDataset(t))
	require.NoError(t, err)
	assert.Equal(t, "most active: none\n", out)
}

func TestReport(t *testing.T) {
	out := query(t, "report")

	for _, want := range []string{
		"Unique transaction types: [debit credit]",
		"Total amount: 375.5",
		"Total amount on 2019-01-01: 100",
		"Debit transactions (3):",
		"Transactions from 2019-01-01 to 2019-01-10 (4):",
		"Transactions at SuperMart (2):",
		"Average amount: 75.1",
		"Transactions between 50 and 150 (4):",
		"Total debit amount: 295.5",
		"Most active month: 1 (January)",
		"Most active debit month: 1 (January)",
		"Dominant type: debit",
		"Transactions before 2019-01-02 (1):",
		"Transaction 1 (1):",
		"  Cashback",
	} {
		assert.Contains(t, out, want)
	}
}

func TestReport_JSON(t *testing.T) {
	out := query(t, "report", "--json")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 375.5, got["total_amount"], 1e-9)
	assert.InDelta(t, 75.1, got["average_amount"], 1e-9)
	assert.InDelta(t, 1, got["most_active_month"], 0)
	assert.Equal(t, "debit", got["dominant_type"])
	assert.Len(t, got["before"], 1)
}

func TestReport_EmptyDataset(t *testing.T) {
	path := emptyDataset(t)

	out, _, err := runTxnalyze(t, "report", "--dataset", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Average amount: NaN")
	assert.Contains(t, out, "Most active month: none")
	assert.Contains(t, out, "Dominant type: equal")
	assert.Contains(t, out, "Transaction 1: not found")

	out, _, err = runTxnalyze(t, "report", "--json", "--dataset", path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Nil(t, got["average_amount"])
	assert.Nil(t, got["found"])
	assert.NotContains(t, got, "most_active_month")
}

func TestChaseFormat(t *testing.T) {
	out, _, err := runTxnalyze(t, "total", "--dataset", "../../testdata/chase_checking.csv", "--format", "chase")
	require.NoError(t, err)
	assert.Equal(t, "3615.82\n", out)
}

func TestCSVWithMalformedAmount(t *testing.T) {
	out, _, err := runTxnalyze(t, "total", "--dataset", "../../testdata/transactions.csv")
	require.NoError(t, err)
	assert.Equal(t, "NaN\n", out)
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := runTxnalyze(t, "total", "--dataset", dataset, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dataset format")
}

func TestConfigFile_SQLSource(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "txns.db")

	db, err := sqlx.Open("sqlite3", dbPath)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE ledger (transaction_id TEXT, transaction_type TEXT, transaction_amount TEXT,
			transaction_date TEXT, transaction_description TEXT, merchant_name TEXT)`,
		`INSERT INTO ledger VALUES ('1', 'credit', '10.25', '2019-03-01', 'a', 'X')`,
		`INSERT INTO ledger VALUES ('2', 'credit', '4.75', '2019-03-02', 'b', 'Y')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	cfgPath := filepath.Join(dir, "txnalyze.yaml")
	cfgYAML := fmt.Sprintf("dataset:\n  format: sql\n  sql:\n    driver: sqlite3\n    dsn: %s\n    table: ledger\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	out, _, err := runTxnalyze(t, "total", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "15\n", out)

	out, _, err = runTxnalyze(t, "dominant", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "credit\n", out)
}

func TestConfigFile_Missing(t *testing.T) {
	_, _, err := runTxnalyze(t, "total", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := runTxnalyze(t, "types", "--dataset", dataset, "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "loaded transactions")
	assert.Contains(t, stderr, "count=5")

	_, stderr, err = runTxnalyze(t, "types", "--dataset", dataset)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "loaded transactions")
}

func TestVersion(t *testing.T) {
	out, _, err := runTxnalyze(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "txnalyze version dev")
}
