package correlator

import (
	"time"

	"dispute-resolver/internal/domain"

	"github.com/shopspring/decimal"
)

// Field reads one candidate source for a value out of a Case. Get reports
// false when the source is absent so the next field in the list is tried.
type Field[T any] struct {
	Name string
	Get  func(c domain.Case) (T, bool)
}

// Resolve walks fields in order and returns the first present value along
// with the name of the field that supplied it.
func Resolve[T any](c domain.Case, fields []Field[T]) (T, string, bool) {
	for _, f := range fields {
		if v, ok := f.Get(c); ok {
			return v, f.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// CustomerFields prefers the dispute's customer and falls back to the
// linked transaction's.
var CustomerFields = []Field[string]{
	{
		Name: "customer_id_dispute",
		Get: func(c domain.Case) (string, bool) {
			return c.Dispute.CustomerID, c.Dispute.CustomerID != ""
		},
	},
	{
		Name: "customer_id_txn",
		Get: func(c domain.Case) (string, bool) {
			if c.Transaction == nil {
				return "", false
			}
			return c.Transaction.CustomerID, c.Transaction.CustomerID != ""
		},
	},
}

// AmountFields prefers the disputed amount and falls back to the linked
// transaction's amount.
var AmountFields = []Field[decimal.Decimal]{
	{
		Name: "amount_dispute",
		Get: func(c domain.Case) (decimal.Decimal, bool) {
			return c.Dispute.Amount.Decimal, c.Dispute.Amount.Valid
		},
	},
	{
		Name: "amount_txn",
		Get: func(c domain.Case) (decimal.Decimal, bool) {
			amount := c.TransactionAmount()
			return amount.Decimal, amount.Valid
		},
	},
}

// TimestampFields only consults the linked transaction. The dispute's
// creation time is not a charge time and is never used as an anchor.
var TimestampFields = []Field[time.Time]{
	{
		Name: "timestamp_txn",
		Get: func(c domain.Case) (time.Time, bool) {
			return c.Timestamp()
		},
	},
}
