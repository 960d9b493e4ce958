package correlator

import (
	"math/rand"
	"testing"
	"time"

	"dispute-resolver/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func successTx(id, customer, amt string, at time.Time) domain.Transaction {
	return domain.Transaction{
		ID:         id,
		CustomerID: customer,
		Amount:     amount(amt),
		Status:     domain.StatusSuccess,
		Timestamp:  at,
		Channel:    "UPI",
	}
}

func caseFor(tx domain.Transaction) domain.Case {
	return domain.Case{
		Dispute: domain.Dispute{
			ID:          "D1",
			CustomerID:  tx.CustomerID,
			Amount:      tx.Amount,
			Description: "charged twice",
			TxnID:       tx.ID,
		},
		Transaction: &tx,
	}
}

func TestCorrelator_ProbableDuplicate(t *testing.T) {
	own := successTx("T1", "C1", "120.00", baseTime)

	tests := []struct {
		name   string
		kase   domain.Case
		ledger []domain.Transaction
		want   bool
	}{
		{
			name:   "second success ten minutes later",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(10*time.Minute))},
			want:   true,
		},
		{
			name:   "second success earlier within window",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120", baseTime.Add(-59*time.Minute))},
			want:   true,
		},
		{
			name:   "exactly on the window edge",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(time.Hour))},
			want:   true,
		},
		{
			name:   "outside the window",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(time.Hour+time.Second))},
			want:   false,
		},
		{
			name:   "only the transaction itself",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own},
			want:   false,
		},
		{
			name:   "different amount",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.01", baseTime.Add(time.Minute))},
			want:   false,
		},
		{
			name:   "different customer",
			kase:   caseFor(own),
			ledger: []domain.Transaction{own, successTx("T2", "C2", "120.00", baseTime.Add(time.Minute))},
			want:   false,
		},
		{
			name: "candidate not successful",
			kase: caseFor(own),
			ledger: func() []domain.Transaction {
				failed := successTx("T2", "C1", "120.00", baseTime.Add(time.Minute))
				failed.Status = domain.StatusFailed
				return []domain.Transaction{own, failed}
			}(),
			want: false,
		},
		{
			name: "no linked transaction",
			kase: domain.Case{
				Dispute: domain.Dispute{ID: "D1", CustomerID: "C1", Amount: amount("120.00")},
			},
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(time.Minute))},
			want:   false,
		},
		{
			name: "linked transaction without timestamp",
			kase: func() domain.Case {
				noTime := own
				noTime.Timestamp = time.Time{}
				return caseFor(noTime)
			}(),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(time.Minute))},
			want:   false,
		},
		{
			name: "customer resolved from transaction side",
			kase: func() domain.Case {
				c := caseFor(own)
				c.Dispute.CustomerID = ""
				return c
			}(),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(time.Minute))},
			want:   true,
		},
		{
			name: "amount resolved from transaction side",
			kase: func() domain.Case {
				c := caseFor(own)
				c.Dispute.Amount = decimal.NullDecimal{}
				return c
			}(),
			ledger: []domain.Transaction{own, successTx("T2", "C1", "120.00", baseTime.Add(time.Minute))},
			want:   true,
		},
		{
			name: "no customer on either side",
			kase: func() domain.Case {
				anon := own
				anon.CustomerID = ""
				c := caseFor(anon)
				return c
			}(),
			ledger: []domain.Transaction{successTx("T2", "", "120.00", baseTime.Add(time.Minute))},
			want:   false,
		},
		{
			name: "duplicate ids are excluded as self",
			kase: caseFor(own),
			ledger: []domain.Transaction{
				own,
				successTx("T1", "C1", "120.00", baseTime.Add(time.Minute)),
			},
			want: false,
		},
		{
			name: "many candidates inside window",
			kase: caseFor(own),
			ledger: []domain.Transaction{
				own,
				successTx("T2", "C1", "120.00", baseTime.Add(time.Minute)),
				successTx("T3", "C1", "120.00", baseTime.Add(2*time.Minute)),
			},
			want: true,
		},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ProbableDuplicate(tt.kase, NewLedger(tt.ledger))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorrelator_OrderIndependent(t *testing.T) {
	own := successTx("T1", "C1", "50.00", baseTime)
	ledger := []domain.Transaction{
		own,
		successTx("T2", "C1", "50.00", baseTime.Add(3*time.Hour)),
		successTx("T3", "C1", "49.99", baseTime.Add(time.Minute)),
		successTx("T4", "C2", "50.00", baseTime.Add(time.Minute)),
		successTx("T5", "C1", "50.00", baseTime.Add(-30*time.Minute)),
	}
	c := New()
	want := c.ProbableDuplicate(caseFor(own), NewLedger(ledger))
	assert.True(t, want)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.Transaction(nil), ledger...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, c.ProbableDuplicate(caseFor(own), NewLedger(shuffled)))
	}
}

func TestCorrelator_WithWindow(t *testing.T) {
	own := successTx("T1", "C1", "10.00", baseTime)
	ledger := NewLedger([]domain.Transaction{own, successTx("T2", "C1", "10.00", baseTime.Add(20*time.Minute))})

	assert.True(t, New().ProbableDuplicate(caseFor(own), ledger))
	assert.False(t, New(WithWindow(15*time.Minute)).ProbableDuplicate(caseFor(own), ledger))
	assert.Equal(t, DefaultWindow, New(WithWindow(0)).Window())
}

func TestResolve(t *testing.T) {
	own := successTx("T1", "C9", "10.00", baseTime)
	kase := caseFor(own)
	kase.Dispute.CustomerID = ""

	v, name, ok := Resolve(kase, CustomerFields)
	assert.True(t, ok)
	assert.Equal(t, "C9", v)
	assert.Equal(t, "customer_id_txn", name)

	kase.Transaction = nil
	_, _, ok = Resolve(kase, CustomerFields)
	assert.False(t, ok)

	_, _, ok = Resolve(kase, TimestampFields)
	assert.False(t, ok)
}

func BenchmarkCorrelator_ProbableDuplicate(b *testing.B) {
	var txs []domain.Transaction
	for i := 0; i < 10000; i++ {
		txs = append(txs, successTx("T"+string(rune('A'+i%26)), "C"+string(rune('0'+i%10)), "25.00", baseTime.Add(time.Duration(i)*time.Minute)))
	}
	own := successTx("SELF", "C1", "25.00", baseTime.Add(-2*time.Hour))
	ledger := NewLedger(txs)
	c := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ProbableDuplicate(caseFor(own), ledger)
	}
}
