package usecase

import (
	"context"

	"dispute-resolver/internal/domain"
)

// DisputeRepository defines the interface for fetching disputes and the ledger.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_interface.go -source=interface.go
type DisputeRepository interface {
	GetDisputes(ctx context.Context) ([]domain.Dispute, error)
	GetTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// Classifier turns a free-text dispute description into a classification.
// Implementations must return a known category, a confidence in [0,1] and a
// non-empty explanation; the dispute id is filled in by the caller.
type Classifier interface {
	Classify(ctx context.Context, description string) (domain.Classification, error)
}
