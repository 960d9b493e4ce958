package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dispute-resolver/internal/domain"
)

// ErrInvalidRule is returned when a rule cannot be compiled.
var ErrInvalidRule = errors.New("classifier: invalid rule")

// Rule is one tier of the keyword cascade.
type Rule struct {
	Category    domain.Category `yaml:"category"`
	Confidence  float64         `yaml:"confidence"`
	Explanation string          `yaml:"explanation"`
	Keywords    []string        `yaml:"keywords"`
}

var fallback = Rule{
	Category:    domain.CategoryOthers,
	Confidence:  0.50,
	Explanation: "No specific keywords matched.",
}

// Fallback returns the rule applied when no keyword matches.
func Fallback() Rule {
	return fallback
}

// DefaultRules returns the tiers in severity order. Fraud outranks every
// other claim, then duplicates, refunds and failures.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category:    domain.CategoryFraud,
			Confidence:  0.95,
			Explanation: "User explicitly mentioned fraud or unauthorized transaction.",
			Keywords:    []string{"fraud", "suspicious", "unauthorized", "didn't make", "recognize", "not authorize", "without my authorization"},
		},
		{
			Category:    domain.CategoryDuplicateCharge,
			Confidence:  0.90,
			Explanation: "User mentions multiple charges or duplication.",
			Keywords:    []string{"twice", "double", "duplicate", "two debit", "two upi", "two upi debit"},
		},
		{
			Category:    domain.CategoryRefundPending,
			Confidence:  0.85,
			Explanation: "User is waiting for a refund or mentioned cancellation.",
			Keywords:    []string{"refund", "waiting", "canceled", "cancelled", "return"},
		},
		{
			Category:    domain.CategoryFailedTransaction,
			Confidence:  0.85,
			Explanation: "User mentions transaction failure or money debited without success.",
			Keywords:    []string{"failed", "stuck", "debited", "not received", "fail", "wrong beneficiary"},
		},
	}
}

// RuleClassifier evaluates an ordered rule list top to bottom; the first
// rule with a keyword contained in the description wins.
type RuleClassifier struct {
	rules []Rule
}

// NewRuleClassifier validates rules and lower-cases their keywords.
func NewRuleClassifier(rules []Rule) (*RuleClassifier, error) {
	compiled := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			keywords = append(keywords, strings.ToLower(kw))
		}
		r.Keywords = keywords
		compiled = append(compiled, r)
	}
	return &RuleClassifier{rules: compiled}, nil
}

// NewDefaultClassifier builds a RuleClassifier over DefaultRules.
func NewDefaultClassifier() *RuleClassifier {
	c, err := NewRuleClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify implements the usecase.Classifier interface. It never fails.
func (c *RuleClassifier) Classify(_ context.Context, description string) (domain.Classification, error) {
	r := c.Match(description)
	return domain.Classification{
		Category:    r.Category,
		Confidence:  r.Confidence,
		Explanation: r.Explanation,
	}, nil
}

// Match returns a copy of the first rule that fires for description, or Fallback.
func (c *RuleClassifier) Match(description string) Rule {
	text := strings.ToLower(description)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.clone()
			}
		}
	}
	return Fallback()
}

// Rules returns a copy of the compiled rules in evaluation order.
func (c *RuleClassifier) Rules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.clone())
	}
	return out
}

func (r Rule) clone() Rule {
	r.Keywords = append([]string(nil), r.Keywords...)
	return r
}

func validateRule(r Rule) error {
	switch {
	case !r.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, r.Category)
	case r.Confidence < 0 || r.Confidence > 1:
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidRule, r.Confidence)
	case r.Explanation == "":
		return fmt.Errorf("%w: empty explanation", ErrInvalidRule)
	}
	for _, kw := range r.Keywords {
		// An empty keyword matches every description.
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("%w: blank keyword for %s", ErrInvalidRule, r.Category)
		}
	}
	if len(r.Keywords) == 0 {
		return fmt.Errorf("%w: no keywords for %s", ErrInvalidRule, r.Category)
	}
	return nil
}
