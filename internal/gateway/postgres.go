package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dispute-resolver/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Source tables read when WithTables is not used.
const (
	DefaultDisputesTable     = "disputes"
	DefaultTransactionsTable = "transactions"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresDisputeRepository reads disputes and the ledger from PostgreSQL tables.
// Nullable columns map to unknown values.
type PostgresDisputeRepository struct {
	db                Querier
	disputesTable     string
	transactionsTable string
}

// NewPostgresDisputeRepository creates a repository over db using the default tables.
func NewPostgresDisputeRepository(db Querier) *PostgresDisputeRepository {
	return &PostgresDisputeRepository{
		db:                db,
		disputesTable:     DefaultDisputesTable,
		transactionsTable: DefaultTransactionsTable,
	}
}

// WithTables overrides the source table names. Empty names keep the current value.
func (r *PostgresDisputeRepository) WithTables(disputes, transactions string) *PostgresDisputeRepository {
	if disputes != "" {
		r.disputesTable = disputes
	}
	if transactions != "" {
		r.transactionsTable = transactions
	}
	return r
}

// GetDisputes reads every dispute ordered by dispute_id.
func (r *PostgresDisputeRepository) GetDisputes(ctx context.Context) ([]domain.Dispute, error) {
	query := fmt.Sprintf(`
        SELECT dispute_id, COALESCE(customer_id, ''), COALESCE(txn_id, ''), amount::text,
               COALESCE(description, ''), created_at
        FROM %s
        ORDER BY dispute_id
    `, pgx.Identifier{r.disputesTable}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("gateway: query disputes: %w", err)
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		var (
			d         domain.Dispute
			amount    *string
			createdAt *time.Time
		)
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.TxnID, &amount, &d.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("gateway: scan dispute: %w", err)
		}
		if d.Amount, err = parseAmount(deref(amount)); err != nil {
			return nil, fmt.Errorf("gateway: dispute %s: %w", d.ID, err)
		}
		if createdAt != nil {
			d.CreatedAt = *createdAt
		}
		d.ID = strings.TrimSpace(d.ID)
		d.CustomerID = strings.TrimSpace(d.CustomerID)
		d.TxnID = strings.TrimSpace(d.TxnID)
		disputes = append(disputes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gateway: read disputes: %w", err)
	}
	return disputes, nil
}

// GetTransactions reads the ledger ordered by txn_id. Statuses are upper-cased.
func (r *PostgresDisputeRepository) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`
        SELECT txn_id, COALESCE(customer_id, ''), amount::text, COALESCE(status, ''),
               "timestamp", COALESCE(channel, '')
        FROM %s
        ORDER BY txn_id
    `, pgx.Identifier{r.transactionsTable}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("gateway: query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var (
			tx     domain.Transaction
			amount *string
			status string
			ts     *time.Time
		)
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &amount, &status, &ts, &tx.Channel); err != nil {
			return nil, fmt.Errorf("gateway: scan transaction: %w", err)
		}
		if tx.Amount, err = parseAmount(deref(amount)); err != nil {
			return nil, fmt.Errorf("gateway: transaction %s: %w", tx.ID, err)
		}
		if ts != nil {
			tx.Timestamp = *ts
		}
		tx.ID = strings.TrimSpace(tx.ID)
		tx.CustomerID = strings.TrimSpace(tx.CustomerID)
		tx.Status = domain.TransactionStatus(strings.ToUpper(strings.TrimSpace(status)))
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gateway: read transactions: %w", err)
	}
	return transactions, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
