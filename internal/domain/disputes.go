package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dispute is a customer-raised claim about a transaction.
// TxnID is empty when the customer did not reference a transaction.
type Dispute struct {
	ID          string              `json:"dispute_id"`
	CustomerID  string              `json:"customer_id"`
	Amount      decimal.NullDecimal `json:"amount"`
	Description string              `json:"description"`
	TxnID       string              `json:"txn_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Category is the taxonomy a dispute is classified into.
type Category string

const (
	CategoryDuplicateCharge   Category = "DUPLICATE_CHARGE"
	CategoryFraud             Category = "FRAUD"
	CategoryFailedTransaction Category = "FAILED_TRANSACTION"
	CategoryRefundPending     Category = "REFUND_PENDING"
	CategoryOthers            Category = "OTHERS"
)

// Categories lists every category in triage priority order.
var Categories = []Category{
	CategoryFraud,
	CategoryDuplicateCharge,
	CategoryRefundPending,
	CategoryFailedTransaction,
	CategoryOthers,
}

// Valid reports whether c is part of the closed taxonomy.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Action is the recommended next step for a dispute.
type Action string

const (
	ActionAutoRefund         Action = "Auto-refund"
	ActionManualReview       Action = "Manual review"
	ActionEscalateToBank     Action = "Escalate to bank"
	ActionMarkPotentialFraud Action = "Mark as potential fraud"
	ActionAskForMoreInfo     Action = "Ask for more info"
	ActionCheckWithBank      Action = "Check with Bank"
)

// Valid reports whether a is one of the actions the policy can recommend.
func (a Action) Valid() bool {
	switch a {
	case ActionAutoRefund, ActionManualReview, ActionEscalateToBank,
		ActionMarkPotentialFraud, ActionAskForMoreInfo, ActionCheckWithBank:
		return true
	}
	return false
}
