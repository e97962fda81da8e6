// Package sqlstore reads exchange records from the SQL database of the
// business console. It supports PostgreSQL (lib/pq) and SQLite
// (modernc.org/sqlite), and never writes.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/reserve"
	"github.com/etnz/reserve/logger"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Store reads the currencies, currency_transactions and currency_adjustments
// tables. It implements reserve.Source.
type Store struct {
	db     *sql.DB
	driver string
}

// DriverFor returns the driver name and the data source name to open dsn.
// "postgres://" and "postgresql://" URLs go to PostgreSQL, anything else is
// a SQLite database path, optionally prefixed with "sqlite://".
func DriverFor(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	}
	if !strings.Contains(dsn, "?") && dsn != ":memory:" {
		dsn += "?_pragma=busy_timeout(5000)"
	}
	return SQLite, dsn
}

// Open opens and pings the database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, source := DriverFor(dsn)
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", driver, err)
	}
	if driver == SQLite {
		// Limit open connections to 1 for SQLite to avoid locking issues
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s database: %w", driver, err)
	}
	logger.FromContext(ctx).Info("database connection established", "driver", driver)
	return New(db, driver), nil
}

// New wraps an open database of the given driver.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Ledger implements reserve.Source.
//
// Rows whose columns cannot be parsed are recorded as rejections with their
// row number. The currencies and currency_adjustments tables are optional.
func (s *Store) Ledger(ctx context.Context) (*reserve.Ledger, error) {
	ledger := reserve.NewLedger()

	if ok, err := s.hasTable(ctx, "currencies"); err != nil {
		return nil, err
	} else if ok {
		if err := s.readCurrencies(ctx, ledger); err != nil {
			return nil, err
		}
	}
	if err := s.readTransactions(ctx, ledger); err != nil {
		return nil, err
	}
	if ok, err := s.hasTable(ctx, "currency_adjustments"); err != nil {
		return nil, err
	} else if ok {
		if err := s.readAdjustments(ctx, ledger); err != nil {
			return nil, err
		}
	}
	logger.FromContext(ctx).Debug("database records loaded", "driver", s.driver, "transactions", ledger.Len())
	return ledger, nil
}

func (s *Store) hasTable(ctx context.Context, name string) (bool, error) {
	var query string
	switch s.driver {
	case Postgres:
		query = `SELECT to_regclass($1) IS NOT NULL`
	default:
		query = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("error looking up table %s: %w", name, err)
	}
	return exists, nil
}

func (s *Store) readCurrencies(ctx context.Context, ledger *reserve.Ledger) error {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM currencies ORDER BY code`)
	if err != nil {
		return fmt.Errorf("error reading currencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var name sql.NullString
		if err := rows.Scan(&code, &name); err != nil {
			return fmt.Errorf("error scanning currency: %w", err)
		}
		ledger.Declare(reserve.Currency{Code: code, Name: name.String})
	}
	return rows.Err()
}

func (s *Store) readTransactions(ctx context.Context, ledger *reserve.Ledger) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, currency_code, type, quantity, exchange_rate, amount_bdt,
		       date, created_at, is_active, memo
		FROM currency_transactions`)
	if err != nil {
		return fmt.Errorf("error reading currency transactions: %w", err)
	}
	defer rows.Close()

	row := 0
	for rows.Next() {
		row++
		var (
			id, code, typ, quantity, date string
			rate, amount, createdAt, memo sql.NullString
			active                        sql.NullBool
		)
		if err := rows.Scan(&id, &code, &typ, &quantity, &rate, &amount, &date, &createdAt, &active, &memo); err != nil {
			return fmt.Errorf("error scanning currency transaction: %w", err)
		}

		tx, err := parseTransaction(id, code, typ, quantity, rate, amount, date, createdAt, active, memo)
		if err != nil {
			ledger.Reject(reserve.Rejection{Kind: reserve.RejectRecord, Index: row, ID: id, Currency: code, Reason: err.Error()})
			continue
		}
		ledger.Append(tx)
	}
	return rows.Err()
}

func parseTransaction(id, code, typ, quantity string, rate, amount sql.NullString, date string, createdAt sql.NullString, active sql.NullBool, memo sql.NullString) (reserve.CurrencyTransaction, error) {
	var errs []error
	q, err := reserve.ParseQuantity(strings.TrimSpace(quantity))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid quantity %q: %w", quantity, err))
	}
	r, err := parseDecimal(rate)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid exchange rate %q: %w", rate.String, err))
	}
	a, err := parseDecimal(amount)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid BDT amount %q: %w", amount.String, err))
	}
	day, err := reserve.ParseDate(date)
	if err != nil {
		errs = append(errs, err)
	}
	created, err := reserve.ParseTimestamp(createdAt.String)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return reserve.CurrencyTransaction{}, errors.Join(errs...)
	}
	return reserve.CurrencyTransaction{
		ID:        id,
		Currency:  code,
		Type:      reserve.TxType(typ),
		Quantity:  q,
		Rate:      reserve.BDT(r),
		Amount:    reserve.BDT(a),
		Date:      day,
		CreatedAt: created,
		Active:    !active.Valid || active.Bool,
		Memo:      memo.String,
	}, nil
}

func (s *Store) readAdjustments(ctx context.Context, ledger *reserve.Ledger) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, currency_code, quantity, date, memo FROM currency_adjustments`)
	if err != nil {
		return fmt.Errorf("error reading currency adjustments: %w", err)
	}
	defer rows.Close()

	row := 0
	for rows.Next() {
		row++
		var id, code, quantity, date string
		var memo sql.NullString
		if err := rows.Scan(&id, &code, &quantity, &date, &memo); err != nil {
			return fmt.Errorf("error scanning currency adjustment: %w", err)
		}
		q, qerr := reserve.ParseQuantity(strings.TrimSpace(quantity))
		day, derr := reserve.ParseDate(date)
		if err := errors.Join(qerr, derr); err != nil {
			ledger.Reject(reserve.Rejection{Kind: reserve.RejectRecord, Index: row, ID: id, Currency: code, Reason: err.Error()})
			continue
		}
		ledger.Adjust(reserve.NewAdjustment(day, id, code, q, memo.String))
	}
	return rows.Err()
}

// parseDecimal parses a nullable numeric column, NULL being zero.
func parseDecimal(s sql.NullString) (decimal.Decimal, error) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s.String))
}

var _ reserve.Source = (*Store)(nil)
