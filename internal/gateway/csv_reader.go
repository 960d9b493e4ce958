package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dispute-resolver/internal/domain"

	"github.com/shopspring/decimal"
)

// timeLayouts are tried in order when parsing timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// CSVDisputeRepository implements the DisputeRepository interface for CSV files.
type CSVDisputeRepository struct {
	disputesPath     string
	transactionsPath string
}

// NewCSVDisputeRepository creates a new repository instance.
func NewCSVDisputeRepository(disputesPath, transactionsPath string) *CSVDisputeRepository {
	return &CSVDisputeRepository{
		disputesPath:     disputesPath,
		transactionsPath: transactionsPath,
	}
}

// GetDisputes reads and parses the disputes CSV file.
// Columns: dispute_id, customer_id, txn_id, amount, description, created_at.
func (r *CSVDisputeRepository) GetDisputes(ctx context.Context) ([]domain.Dispute, error) {
	var disputes []domain.Dispute
	err := readCSV(ctx, r.disputesPath, "dispute_id", func(row csvRow) error {
		amount, err := parseAmount(row.get("amount"))
		if err != nil {
			return err
		}
		createdAt, err := parseTime(row.get("created_at"))
		if err != nil {
			return fmt.Errorf("could not parse created_at: %w", err)
		}
		disputes = append(disputes, domain.Dispute{
			ID:          row.get("dispute_id"),
			CustomerID:  row.get("customer_id"),
			Amount:      amount,
			Description: row.raw("description"),
			TxnID:       row.get("txn_id"),
			CreatedAt:   createdAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

// GetTransactions reads and parses the transaction ledger CSV file.
// Columns: txn_id, customer_id, amount, status, timestamp, channel.
func (r *CSVDisputeRepository) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := readCSV(ctx, r.transactionsPath, "txn_id", func(row csvRow) error {
		amount, err := parseAmount(row.get("amount"))
		if err != nil {
			return err
		}
		ts, err := parseTime(row.get("timestamp"))
		if err != nil {
			return fmt.Errorf("could not parse timestamp: %w", err)
		}
		transactions = append(transactions, domain.Transaction{
			ID:         row.get("txn_id"),
			CustomerID: row.get("customer_id"),
			Amount:     amount,
			Status:     domain.TransactionStatus(strings.ToUpper(row.get("status"))),
			Timestamp:  ts,
			Channel:    row.get("channel"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// csvRow gives access to a record by header name. Missing columns read as empty.
type csvRow struct {
	columns map[string]int
	record  []string
}

func (r csvRow) raw(name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

func (r csvRow) get(name string) string {
	return strings.TrimSpace(r.raw(name))
}

func readCSV(ctx context.Context, path, idColumn string, handle func(csvRow) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := columns[idColumn]; !ok {
		return fmt.Errorf("missing %s column in %s", idColumn, path)
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("error reading record from %s: %w", path, err)
		}
		if err := handle(csvRow{columns: columns, record: record}); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
	return nil
}

func parseAmount(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("could not parse amount '%s': %w", raw, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
