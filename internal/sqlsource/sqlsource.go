// Package sqlsource loads a transaction dataset from a SQL table.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/cleared-dev/txnalyze/internal/model"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "transactions"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Source reads transactions from a database.
type Source struct {
	db *sqlx.DB
}

type row struct {
	ID          sql.NullString `db:"transaction_id"`
	Type        sql.NullString `db:"transaction_type"`
	Amount      sql.NullString `db:"transaction_amount"`
	Date        sql.NullString `db:"transaction_date"`
	Description sql.NullString `db:"transaction_description"`
	Merchant    sql.NullString `db:"merchant_name"`
}

// Open connects to a database with the given driver ("sqlite3" or "postgres").
func Open(ctx context.Context, driver, dsn string) (*Source, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", driver, err)
	}

	return &Source{db: db}, nil
}

// Load selects every row of table in the order the database returns them.
func (s *Source) Load(ctx context.Context, table string) ([]model.Transaction, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	query := `SELECT transaction_id, transaction_type, transaction_amount, transaction_date,
		transaction_description, merchant_name FROM ` + table

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	txns := make([]model.Transaction, len(rows))
	for i, r := range rows {
		txns[i] = model.Transaction{
			ID:          r.ID.String,
			Type:        r.Type.String,
			Amount:      r.Amount.String,
			Date:        r.Date.String,
			Description: r.Description.String,
			Merchant:    r.Merchant.String,
		}
	}
	slog.Debug("loaded dataset from database", "table", table, "count", len(txns))
	return txns, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	return s.db.Close()
}
