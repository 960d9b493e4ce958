package gateway

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"dispute-resolver/internal/db"
	"dispute-resolver/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresDisputeRepository_Integration connects to a real PostgreSQL via
// DATABASE_URL, seeds throwaway tables and reads them back.
func TestPostgresDisputeRepository_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is empty; set it to a live PostgreSQL to run integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	disputesTable := "disputes_" + suffix
	txTable := "transactions_" + suffix
	disputesIdent := pgx.Identifier{disputesTable}.Sanitize()
	txIdent := pgx.Identifier{txTable}.Sanitize()

	statements := []string{
		`CREATE TABLE ` + disputesIdent + ` (
            dispute_id  TEXT PRIMARY KEY,
            customer_id TEXT,
            txn_id      TEXT,
            amount      NUMERIC(12,2),
            description TEXT,
            created_at  TIMESTAMPTZ
        )`,
		`CREATE TABLE ` + txIdent + ` (
            txn_id      TEXT,
            customer_id TEXT,
            amount      NUMERIC(12,2),
            status      TEXT,
            "timestamp" TIMESTAMPTZ,
            channel     TEXT
        )`,
		`INSERT INTO ` + disputesIdent + ` VALUES
            ('D001', 'C1', 'T001', 150.00, 'I was charged twice', '2025-06-01T10:00:00Z'),
            ('D002', NULL, NULL, NULL, NULL, NULL)`,
		`INSERT INTO ` + txIdent + ` VALUES
            ('T001', 'C1', 150.00, 'success', '2025-06-01T09:00:00Z', 'UPI'),
            ('T002', NULL, NULL, NULL, NULL, NULL)`,
	}
	defer func() {
		_, _ = pool.Exec(context.Background(), `DROP TABLE IF EXISTS `+disputesIdent+`, `+txIdent)
	}()
	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}

	repo := NewPostgresDisputeRepository(pool).WithTables(disputesTable, txTable)

	disputes, err := repo.GetDisputes(ctx)
	require.NoError(t, err)
	require.Len(t, disputes, 2)
	assert.Equal(t, "D001", disputes[0].ID)
	assert.Equal(t, "T001", disputes[0].TxnID)
	assert.True(t, disputes[0].Amount.Valid)
	assert.True(t, disputes[0].Amount.Decimal.Equal(amount("150").Decimal))
	assert.True(t, disputes[0].CreatedAt.Equal(mustParseTime("2025-06-01T10:00:00Z")))
	assert.Equal(t, domain.Dispute{ID: "D002"}, disputes[1])

	transactions, err := repo.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, domain.StatusSuccess, transactions[0].Status)
	assert.Equal(t, "UPI", transactions[0].Channel)
	assert.True(t, transactions[0].Timestamp.Equal(mustParseTime("2025-06-01T09:00:00Z")))
	assert.False(t, transactions[1].Amount.Valid)
	assert.Empty(t, transactions[1].Status)
}
