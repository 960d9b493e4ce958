package usecase

import (
	"context"
	"fmt"
	"time"

	"dispute-resolver/internal/correlator"
	"dispute-resolver/internal/domain"
	"dispute-resolver/internal/logger"
	"dispute-resolver/internal/policy"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// ResolutionUseCase orchestrates classification, correlation and resolution.
type ResolutionUseCase struct {
	repo       DisputeRepository
	classifier Classifier
	correlator *correlator.Correlator
	policy     *policy.Engine
	workers    int
	idGen      func() string
	now        func() time.Time
}

// NewResolutionUseCase creates a new instance of the usecase.
func NewResolutionUseCase(repo DisputeRepository, classifier Classifier) *ResolutionUseCase {
	return &ResolutionUseCase{
		repo:       repo,
		classifier: classifier,
		correlator: correlator.New(),
		policy:     policy.NewEngine(),
		workers:    defaultWorkers,
		idGen:      uuid.NewString,
		now:        time.Now,
	}
}

// WithCorrelator replaces the duplicate-charge correlator.
func (uc *ResolutionUseCase) WithCorrelator(c *correlator.Correlator) *ResolutionUseCase {
	uc.correlator = c
	return uc
}

// WithWorkers bounds how many disputes are processed at once.
func (uc *ResolutionUseCase) WithWorkers(n int) *ResolutionUseCase {
	if n > 0 {
		uc.workers = n
	}
	return uc
}

// WithIDGenerator sets how run ids are produced.
func (uc *ResolutionUseCase) WithIDGenerator(gen func() string) *ResolutionUseCase {
	uc.idGen = gen
	return uc
}

// WithClock sets the clock used for the report timestamp.
func (uc *ResolutionUseCase) WithClock(now func() time.Time) *ResolutionUseCase {
	uc.now = now
	return uc
}

// Resolve loads disputes and the ledger from the repository and runs the pipeline.
func (uc *ResolutionUseCase) Resolve(ctx context.Context) (*domain.ResolutionReport, error) {
	disputes, err := uc.repo.GetDisputes(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get disputes: %w", err)
	}

	transactions, err := uc.repo.GetTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get transactions: %w", err)
	}

	return uc.Process(ctx, disputes, transactions)
}

// Process runs the pipeline over in-memory collections. Every dispute yields
// exactly one case, in input order. The inputs are never modified.
func (uc *ResolutionUseCase) Process(ctx context.Context, disputes []domain.Dispute, transactions []domain.Transaction) (*domain.ResolutionReport, error) {
	log := logger.FromContext(ctx)
	runID := uc.idGen()
	log.Info().
		Str("run_id", runID).
		Int("disputes", len(disputes)).
		Int("transactions", len(transactions)).
		Msg("resolution run started")

	ledger := correlator.NewLedger(transactions)
	cases := join(disputes, ledger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i := range cases {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return uc.resolveCase(gctx, &cases[i], ledger)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("resolution run failed")
		return nil, fmt.Errorf("resolve disputes: %w", err)
	}

	report := &domain.ResolutionReport{
		RunID:       runID,
		GeneratedAt: uc.now().UTC(),
		Summary:     Summarize(cases),
		Cases:       cases,
	}

	log.Info().
		Str("run_id", runID).
		Int("linked", report.Summary.LinkedDisputes).
		Int("auto_refunds", report.Summary.AutoRefunds).
		Int("fraud_cases", report.Summary.FraudCases).
		Msg("resolution run finished")
	return report, nil
}

// resolveCase fills the classification, duplicate verdict and resolution of c.
func (uc *ResolutionUseCase) resolveCase(ctx context.Context, c *domain.Case, ledger *correlator.Ledger) error {
	classification, err := uc.classifier.Classify(ctx, c.Dispute.Description)
	if err != nil {
		return fmt.Errorf("classify dispute %s: %w", c.Dispute.ID, err)
	}
	classification.DisputeID = c.Dispute.ID
	if err := classification.Validate(); err != nil {
		return fmt.Errorf("classify dispute %s: %w", c.Dispute.ID, err)
	}

	c.Classification = classification
	c.ProbableDuplicate = uc.correlator.ProbableDuplicate(*c, ledger)
	c.Resolution = uc.policy.Resolve(*c)

	log := logger.FromContext(ctx)
	log.Debug().
		Str("dispute_id", c.Dispute.ID).
		Str("category", string(c.Classification.Category)).
		Bool("linked", c.Linked()).
		Str("action", string(c.Resolution.Action)).
		Msg("dispute resolved")
	return nil
}

// Join left-joins disputes with the ledger on the linked transaction id.
// Disputes whose link does not resolve keep a nil Transaction.
func Join(disputes []domain.Dispute, transactions []domain.Transaction) []domain.Case {
	return join(disputes, correlator.NewLedger(transactions))
}

func join(disputes []domain.Dispute, ledger *correlator.Ledger) []domain.Case {
	cases := make([]domain.Case, len(disputes))
	for i, d := range disputes {
		cases[i].Dispute = d
		if tx, ok := ledger.Lookup(d.TxnID); ok {
			cases[i].Transaction = &tx
		}
	}
	return cases
}
