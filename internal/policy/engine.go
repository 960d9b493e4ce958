package policy

import (
	"fmt"

	"dispute-resolver/internal/domain"
)

// Justifications attached to each branch of the decision table.
const (
	JustificationDuplicateConfirmed = "Found a duplicate successful transaction within short timeframe."
	JustificationDuplicateUnproven  = "User claims duplicate, but no matching success transaction found in near timeframe."
	JustificationFraud              = "High severity claim. Immediate block and investigation required."
	JustificationFailedButDebited   = "Transaction is marked FAILED in system but user reports debit. Refund."
	JustificationFailedButSuccess   = "System shows SUCCESS but user claims failure. Need bank reference number."
	JustificationFailedPending      = "Transaction is PENDING. Check upstream status."
	JustificationRefundCancelled    = "Order was cancelled. Process refund if not done."
	JustificationRefundOnSuccess    = "User is waiting for refund on a SUCCESS transaction (possible return?)"
	JustificationRefundDelayed      = "Refund delayed. Escalate."
	JustificationUnclear            = "Category OTHERS or unclear rules."
)

// Engine maps a classified case to a recommended action.
type Engine struct{}

// NewEngine creates a policy engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Resolve decides the resolution for a joined case.
func (e *Engine) Resolve(c domain.Case) domain.Resolution {
	r := e.Decide(c.Classification.Category, c.Status(), c.ProbableDuplicate)
	r.DisputeID = c.Dispute.ID
	return r
}

// Decide is the decision table. duplicateFound is only consulted for
// duplicate-charge claims; fraud claims ignore the status entirely.
func (e *Engine) Decide(category domain.Category, status domain.TransactionStatus, duplicateFound bool) domain.Resolution {
	if status == "" {
		status = domain.StatusUnknown
	}

	switch category {
	case domain.CategoryDuplicateCharge:
		if duplicateFound {
			return resolution(domain.ActionAutoRefund, JustificationDuplicateConfirmed)
		}
		return resolution(domain.ActionManualReview, JustificationDuplicateUnproven)

	case domain.CategoryFraud:
		return resolution(domain.ActionMarkPotentialFraud, JustificationFraud)

	case domain.CategoryFailedTransaction:
		switch status {
		case domain.StatusFailed:
			return resolution(domain.ActionAutoRefund, JustificationFailedButDebited)
		case domain.StatusSuccess:
			return resolution(domain.ActionAskForMoreInfo, JustificationFailedButSuccess)
		case domain.StatusPending:
			return resolution(domain.ActionCheckWithBank, JustificationFailedPending)
		default:
			return resolution(domain.ActionManualReview, fmt.Sprintf("Unusual status: %s", status))
		}

	case domain.CategoryRefundPending:
		switch status {
		case domain.StatusCancelled:
			return resolution(domain.ActionAutoRefund, JustificationRefundCancelled)
		case domain.StatusSuccess:
			return resolution(domain.ActionManualReview, JustificationRefundOnSuccess)
		default:
			return resolution(domain.ActionEscalateToBank, JustificationRefundDelayed)
		}
	}

	return resolution(domain.ActionManualReview, JustificationUnclear)
}

func resolution(action domain.Action, justification string) domain.Resolution {
	return domain.Resolution{Action: action, Justification: justification}
}
