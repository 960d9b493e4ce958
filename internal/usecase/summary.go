package usecase

import (
	"time"

	"dispute-resolver/internal/domain"
)

// Summarize aggregates a case collection without modifying it.
func Summarize(cases []domain.Case) domain.Summary {
	s := domain.Summary{
		TotalDisputes: len(cases),
		ByCategory:    make(map[domain.Category]int),
		ByAction:      make(map[domain.Action]int),
		DailyIntake:   make(map[string]int),
	}
	for _, c := range cases {
		if c.Linked() {
			s.LinkedDisputes++
		} else {
			s.UnlinkedDisputes++
		}
		s.ByCategory[c.Classification.Category]++
		s.ByAction[c.Resolution.Action]++

		if c.Classification.Category == domain.CategoryFraud {
			s.FraudCases++
		}
		switch c.Resolution.Action {
		case domain.ActionAutoRefund:
			s.AutoRefunds++
		case domain.ActionEscalateToBank:
			s.Escalations++
		}
		if c.Classification.Category == domain.CategoryDuplicateCharge && c.ProbableDuplicate {
			s.ConfirmedDuplicate++
		}
		if !c.Dispute.CreatedAt.IsZero() {
			s.DailyIntake[c.Dispute.CreatedAt.Format(time.DateOnly)]++
		}
	}
	return s
}

// FilterByCategory returns the cases classified as category, in input order.
func FilterByCategory(cases []domain.Case, category domain.Category) []domain.Case {
	var out []domain.Case
	for _, c := range cases {
		if c.Classification.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// UnresolvedFraud lists fraud cases. Every fraud case stays open until an
// investigator closes it outside this system.
func UnresolvedFraud(cases []domain.Case) []domain.Case {
	return FilterByCategory(cases, domain.CategoryFraud)
}
