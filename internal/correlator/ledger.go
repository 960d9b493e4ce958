package correlator

import "dispute-resolver/internal/domain"

// Ledger is a read-only index of the transaction ledger keyed by customer.
// It is built once per run and may be shared by concurrent readers.
type Ledger struct {
	byCustomer map[string][]domain.Transaction
	byID       map[string]domain.Transaction
	size       int
}

// NewLedger indexes transactions. When an id repeats, Lookup returns the
// first occurrence; every occurrence still takes part in correlation.
func NewLedger(transactions []domain.Transaction) *Ledger {
	l := &Ledger{
		byCustomer: make(map[string][]domain.Transaction),
		byID:       make(map[string]domain.Transaction, len(transactions)),
		size:       len(transactions),
	}
	for _, tx := range transactions {
		l.byCustomer[tx.CustomerID] = append(l.byCustomer[tx.CustomerID], tx)
		if _, seen := l.byID[tx.ID]; !seen && tx.ID != "" {
			l.byID[tx.ID] = tx
		}
	}
	return l
}

// Lookup finds a transaction by id.
func (l *Ledger) Lookup(id string) (domain.Transaction, bool) {
	if id == "" {
		return domain.Transaction{}, false
	}
	tx, ok := l.byID[id]
	return tx, ok
}

// ForCustomer returns the transactions recorded for customerID.
// The returned slice must not be modified.
func (l *Ledger) ForCustomer(customerID string) []domain.Transaction {
	return l.byCustomer[customerID]
}

// Len returns the number of indexed transactions.
func (l *Ledger) Len() int {
	return l.size
}
