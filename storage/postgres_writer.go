package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"grocery-deal-finder/models"
)

// PostgresWriter persists accepted deals to PostgreSQL and serves the
// deal history the deduplicator reads.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS deals (
			id                 SERIAL PRIMARY KEY,
			product_name       TEXT          NOT NULL,
			original_price     NUMERIC(10,2) NOT NULL DEFAULT 0,
			sale_price         NUMERIC(10,2) NOT NULL DEFAULT 0,
			coupon_discount    NUMERIC(10,2) NOT NULL DEFAULT 0,
			final_price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			savings            NUMERIC(10,2) NOT NULL DEFAULT 0,
			savings_percent    NUMERIC(6,2)  NOT NULL DEFAULT 0,
			coupon_description TEXT          NOT NULL DEFAULT '',
			sale_description   TEXT          NOT NULL DEFAULT '',
			expiry_date        TEXT          NOT NULL DEFAULT 'Unknown',
			found_date         TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_deals_found_date   ON deals(found_date);
		CREATE INDEX IF NOT EXISTS idx_deals_product_name ON deals(product_name);
	`)
	return err
}

// Append batch-inserts the run's accepted deals. History rows are never
// overwritten; recurring deals simply add a newer found_date.
func (pw *PostgresWriter) Append(deals []*models.Deal) error {
	const batchSize = 50
	for i := 0; i < len(deals); i += batchSize {
		end := i + batchSize
		if end > len(deals) {
			end = len(deals)
		}
		if err := pw.insertBatch(deals[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Deal) error {
	if len(batch) == 0 {
		return nil
	}

	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, d := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			d.ProductName, d.OriginalPrice, d.SalePrice, d.CouponDiscount,
			d.FinalPrice, d.Savings, d.SavingsPercent,
			d.CouponDescription, d.SaleDescription, d.ExpiryDate, d.FoundDate)
	}

	query := fmt.Sprintf(`
		INSERT INTO deals (product_name, original_price, sale_price, coupon_discount,
			final_price, savings, savings_percent,
			coupon_description, sale_description, expiry_date, found_date)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// FetchHistory retrieves stored deals for the deduplicator, newest first.
// Timestamps come back as strings; rows the deduplicator cannot parse are
// its problem to skip, not ours to drop.
func (pw *PostgresWriter) FetchHistory() ([]models.HistoryEntry, error) {
	rows, err := pw.db.Query(`
		SELECT product_name, final_price, found_date
		FROM deals
		ORDER BY found_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch history: %w", err)
	}
	defer rows.Close()

	var history []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var found time.Time
		if err := rows.Scan(&entry.ProductName, &entry.FinalPrice, &found); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		entry.FoundDate = found.Format(time.RFC3339Nano)
		history = append(history, entry)
	}
	return history, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
