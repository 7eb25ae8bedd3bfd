package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"grocery-deal-finder/models"
)

// CSVWriter appends accepted deals to a CSV file, one row per deal.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens (or creates) the CSV file at the given path in append
// mode, writing the header row only when the file is new. Intermediate
// directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	info, statErr := os.Stat(path)
	fresh := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if fresh {
		if err := w.Write([]string{
			"product_name", "original_price", "sale_price", "coupon_discount",
			"final_price", "savings", "savings_percent",
			"coupon_description", "sale_description", "expiry_date", "found_date",
		}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Append writes one row per deal.
func (c *CSVWriter) Append(deals []*models.Deal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range deals {
		row := []string{
			d.ProductName,
			strconv.FormatFloat(d.OriginalPrice, 'f', 2, 64),
			strconv.FormatFloat(d.SalePrice, 'f', 2, 64),
			strconv.FormatFloat(d.CouponDiscount, 'f', 2, 64),
			strconv.FormatFloat(d.FinalPrice, 'f', 2, 64),
			strconv.FormatFloat(d.Savings, 'f', 2, 64),
			strconv.FormatFloat(d.SavingsPercent, 'f', 1, 64),
			d.CouponDescription,
			d.SaleDescription,
			d.ExpiryDate,
			d.FoundDate.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
