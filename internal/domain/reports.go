package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidClassification is returned when a classifier breaks the output contract.
var ErrInvalidClassification = errors.New("classification: contract violated")

// Classification is the classifier's verdict for one dispute.
type Classification struct {
	DisputeID   string   `json:"dispute_id"`
	Category    Category `json:"predicted_category"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
}

// Validate checks the contract every classifier must honour: a known
// category, a confidence in [0,1] and a non-empty explanation.
func (c Classification) Validate() error {
	if !c.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, c.Category)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidClassification, c.Confidence)
	}
	if c.Explanation == "" {
		return fmt.Errorf("%w: empty explanation", ErrInvalidClassification)
	}
	return nil
}

// Resolution is the recommended action for one dispute.
type Resolution struct {
	DisputeID     string `json:"dispute_id"`
	Action        Action `json:"suggested_action"`
	Justification string `json:"justification"`
}

// Case joins a dispute with its classification and, when the link resolves,
// its ledger transaction. A nil Transaction means the transaction-side
// fields are unknown.
type Case struct {
	Dispute           Dispute        `json:"dispute"`
	Classification    Classification `json:"classification"`
	Transaction       *Transaction   `json:"transaction"`
	ProbableDuplicate bool           `json:"probable_duplicate"`
	Resolution        Resolution     `json:"resolution"`
}

// Linked reports whether the dispute's transaction was found in the ledger.
func (c Case) Linked() bool {
	return c.Transaction != nil
}

// Status returns the linked transaction's status, or StatusUnknown.
func (c Case) Status() TransactionStatus {
	if c.Transaction == nil || c.Transaction.Status == "" {
		return StatusUnknown
	}
	return c.Transaction.Status
}

// Timestamp returns the linked transaction's time and whether it is known.
func (c Case) Timestamp() (time.Time, bool) {
	if c.Transaction == nil || c.Transaction.Timestamp.IsZero() {
		return time.Time{}, false
	}
	return c.Transaction.Timestamp, true
}

// Channel returns the linked transaction's channel, empty when unknown.
func (c Case) Channel() string {
	if c.Transaction == nil {
		return ""
	}
	return c.Transaction.Channel
}

// TransactionAmount returns the linked transaction's amount, invalid when unknown.
func (c Case) TransactionAmount() decimal.NullDecimal {
	if c.Transaction == nil {
		return decimal.NullDecimal{}
	}
	return c.Transaction.Amount
}

// Summary provides high-level statistics of a resolution run.
type Summary struct {
	TotalDisputes      int              `json:"total_disputes"`
	LinkedDisputes     int              `json:"linked_disputes"`
	UnlinkedDisputes   int              `json:"unlinked_disputes"`
	ByCategory         map[Category]int `json:"by_category"`
	ByAction           map[Action]int   `json:"by_action"`
	FraudCases         int              `json:"fraud_cases"`
	AutoRefunds        int              `json:"auto_refunds"`
	Escalations        int              `json:"escalations"`
	ConfirmedDuplicate int              `json:"confirmed_duplicates"`
	DailyIntake        map[string]int   `json:"daily_intake"`
}

// ResolutionReport is the top-level structure for the final JSON output.
type ResolutionReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Cases       []Case    `json:"cases"`
}

// Classifications projects the per-dispute classifications out of the cases.
func (r *ResolutionReport) Classifications() []Classification {
	out := make([]Classification, 0, len(r.Cases))
	for _, c := range r.Cases {
		out = append(out, c.Classification)
	}
	return out
}

// Resolutions projects the per-dispute resolutions out of the cases.
func (r *ResolutionReport) Resolutions() []Resolution {
	out := make([]Resolution, 0, len(r.Cases))
	for _, c := range r.Cases {
		out = append(out, c.Resolution)
	}
	return out
}
