package correlator

import (
	"time"

	"dispute-resolver/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultWindow is how far apart two successful charges may be and still
// count as the same charge applied twice.
const DefaultWindow = time.Hour

// Correlator confirms duplicate-charge claims against the ledger.
type Correlator struct {
	window    time.Duration
	customer  []Field[string]
	amount    []Field[decimal.Decimal]
	timestamp []Field[time.Time]
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithWindow overrides the correlation window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(c *Correlator) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithCustomerFields replaces the customer id resolution order.
func WithCustomerFields(fields []Field[string]) Option {
	return func(c *Correlator) { c.customer = fields }
}

// WithAmountFields replaces the amount resolution order.
func WithAmountFields(fields []Field[decimal.Decimal]) Option {
	return func(c *Correlator) { c.amount = fields }
}

// WithTimestampFields replaces the timestamp resolution order.
func WithTimestampFields(fields []Field[time.Time]) Option {
	return func(c *Correlator) { c.timestamp = fields }
}

// New creates a Correlator with the default window and field orders.
func New(opts ...Option) *Correlator {
	c := &Correlator{
		window:    DefaultWindow,
		customer:  CustomerFields,
		amount:    AmountFields,
		timestamp: TimestampFields,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the configured correlation window.
func (c *Correlator) Window() time.Duration {
	return c.window
}

// ProbableDuplicate reports whether the ledger holds another SUCCESS
// transaction for the same customer and amount within the window of the
// case's transaction time. The case's own transaction is excluded by id.
// Unresolvable customer, amount or timestamp yields false.
func (c *Correlator) ProbableDuplicate(kase domain.Case, ledger *Ledger) bool {
	anchor, _, ok := Resolve(kase, c.timestamp)
	if !ok {
		return false
	}
	customerID, _, ok := Resolve(kase, c.customer)
	if !ok {
		return false
	}
	amount, _, ok := Resolve(kase, c.amount)
	if !ok {
		return false
	}
	ownID := kase.Dispute.TxnID

	for _, tx := range ledger.ForCustomer(customerID) {
		if tx.Status != domain.StatusSuccess || tx.ID == ownID {
			continue
		}
		if !tx.Amount.Valid || !tx.Amount.Decimal.Equal(amount) {
			continue
		}
		if tx.Timestamp.IsZero() {
			continue
		}
		if absDuration(tx.Timestamp.Sub(anchor)) <= c.window {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
