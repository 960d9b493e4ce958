package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the ledger's view of how a payment ended up.
type TransactionStatus string

const (
	StatusSuccess   TransactionStatus = "SUCCESS"
	StatusFailed    TransactionStatus = "FAILED"
	StatusPending   TransactionStatus = "PENDING"
	StatusCancelled TransactionStatus = "CANCELLED"

	// StatusUnknown is reported when a status is absent.
	StatusUnknown TransactionStatus = "UNKNOWN"
)

// Known reports whether s is one of the statuses the ledger is expected to carry.
func (s TransactionStatus) Known() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Transaction represents one entry of the payment ledger.
// A zero Timestamp and an empty Status mean the value is unknown.
type Transaction struct {
	ID         string              `json:"txn_id"`
	CustomerID string              `json:"customer_id"`
	Amount     decimal.NullDecimal `json:"amount"`
	Status     TransactionStatus   `json:"status"`
	Timestamp  time.Time           `json:"timestamp"`
	Channel    string              `json:"channel"`
}
