package gateway

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"dispute-resolver/internal/domain"

	"github.com/shopspring/decimal"
)

// CaseColumns is the header written by WriteCases. Dispute columns keep their
// names, ledger columns that clash carry a _txn suffix.
var CaseColumns = []string{
	"dispute_id",
	"customer_id",
	"txn_id",
	"amount",
	"description",
	"created_at",
	"predicted_category",
	"confidence",
	"explanation",
	"status",
	"timestamp",
	"channel",
	"amount_txn",
	"probable_duplicate",
	"suggested_action",
	"justification",
}

// WriteCases exports resolved cases as CSV in the given order.
// An unknown status is written as UNKNOWN, other unknown values as empty cells.
func WriteCases(w io.Writer, cases []domain.Case) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CaseColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, c := range cases {
		ts, _ := c.Timestamp()
		record := []string{
			c.Dispute.ID,
			c.Dispute.CustomerID,
			c.Dispute.TxnID,
			formatAmount(c.Dispute.Amount),
			c.Dispute.Description,
			formatTime(c.Dispute.CreatedAt),
			string(c.Classification.Category),
			strconv.FormatFloat(c.Classification.Confidence, 'f', 2, 64),
			c.Classification.Explanation,
			string(c.Status()),
			formatTime(ts),
			c.Channel(),
			formatAmount(c.TransactionAmount()),
			strconv.FormatBool(c.ProbableDuplicate),
			string(c.Resolution.Action),
			c.Resolution.Justification,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write case %s: %w", c.Dispute.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
