// Package scoring implements the recommendation core: a five-signal weighted
// scorer producing composite scores in [0,1], and an MMR-style greedy
// diversifier that keeps near-duplicate products from crowding the top
// results.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/utils"
)

// ErrInvalidWeights is returned when scoring weights do not sum to 1.
var ErrInvalidWeights = errors.New("scoring weights must sum to 1.0")

// weightEpsilon tolerates float accumulation error in the weight-sum check.
const weightEpsilon = 1e-9

// neutralScore is used for signals with no data, so missing enrichment
// neither rewards nor punishes a candidate.
const neutralScore = 0.5

// mustHavePenalty multiplies the composite when a required feature is absent.
const mustHavePenalty = 0.25

// Weights holds the relative weight of each scoring signal.
type Weights struct {
	BudgetFit    float64 `json:"budget_fit"`
	Sentiment    float64 `json:"sentiment"`
	FeatureMatch float64 `json:"feature_match"`
	Deal         float64 `json:"deal"`
	Availability float64 `json:"availability"`
}

// DefaultWeights returns the fixed production weights.
func DefaultWeights() Weights {
	return Weights{
		BudgetFit:    0.38,
		Sentiment:    0.22,
		FeatureMatch: 0.22,
		Deal:         0.13,
		Availability: 0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.BudgetFit + w.Sentiment + w.FeatureMatch + w.Deal + w.Availability
}

// Validate checks the weights sum to 1.0.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > weightEpsilon {
		return fmt.Errorf("%w: got %v", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Breakdown holds the per-signal sub-scores behind a composite score.
// All sub-scores are in [0,1].
type Breakdown struct {
	BudgetFit    float64 `json:"budget_fit"`
	Sentiment    float64 `json:"sentiment"`
	FeatureMatch float64 `json:"feature_match"`
	Deal         float64 `json:"deal"`
	Availability float64 `json:"availability"`

	// Composite is the weighted combination, after the must-have penalty.
	Composite float64 `json:"composite"`
	// MissingMustHave lists required features the product lacks.
	MissingMustHave []string `json:"missing_must_have,omitempty"`
}

// Scorer combines the five signals into a composite score per candidate.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer, validating that weights sum to 1.0.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the composite score and per-signal breakdown for a product
// against the query. The composite is always in [0,1].
func (s *Scorer) Score(product *types.Product, query *types.UserQuery) Breakdown {
	best := product.BestOffer()

	b := Breakdown{
		BudgetFit:    budgetFitScore(best, query.BudgetAmount()),
		Sentiment:    sentimentScore(product),
		Deal:         dealScore(best),
		Availability: availabilityScore(best),
	}
	b.FeatureMatch, b.MissingMustHave = featureMatchScore(product, query)

	composite := s.weights.BudgetFit*utils.Clamp01(b.BudgetFit) +
		s.weights.Sentiment*utils.Clamp01(b.Sentiment) +
		s.weights.FeatureMatch*utils.Clamp01(b.FeatureMatch) +
		s.weights.Deal*utils.Clamp01(b.Deal) +
		s.weights.Availability*utils.Clamp01(b.Availability)

	if len(b.MissingMustHave) > 0 {
		composite *= mustHavePenalty
	}
	b.Composite = utils.Clamp01(composite)
	return b
}

// budgetFitScore maps price-to-budget ratio onto [0,1]. Prices comfortably
// under budget score 1.0; scores taper toward budget, fall off quadratically
// above it and hit 0 at 1.5x budget. The mapping is monotonically
// non-increasing in price so an over-budget item never outranks an in-budget
// one on this signal.
func budgetFitScore(best *types.Offer, budget float64) float64 {
	if budget <= 0 || best == nil {
		// No stated budget, or no offer to price against: mildly positive
		// so the unknown price matters less than the stated signals. A
		// product whose offer lookup failed is penalized on availability,
		// not here.
		return 0.6
	}

	ratio := best.Price.Amount / budget
	switch {
	case ratio <= 0.8:
		return 1.0
	case ratio <= 1.0:
		// Linear taper from 1.0 at 80% of budget to 0.55 at exactly budget.
		return 1.0 - (ratio-0.8)/0.2*0.45
	case ratio < 1.5:
		over := (ratio - 1.0) / 0.5
		return utils.Clamp01(0.55 * (1.0 - over*over))
	default:
		return 0
	}
}

func sentimentScore(product *types.Product) float64 {
	if product.SentimentScore == nil {
		return neutralScore
	}
	return utils.Clamp01(*product.SentimentScore)
}

// featureMatchScore scores how well the product covers required and
// preferred features. Must-haves dominate; the returned slice lists any
// required features the product lacks.
func featureMatchScore(product *types.Product, query *types.UserQuery) (float64, []string) {
	if len(query.MustHave) == 0 && len(query.NiceToHave) == 0 {
		return 0.6, nil
	}

	var missing []string
	mustFraction := 1.0
	if len(query.MustHave) > 0 {
		matched := 0
		for _, f := range query.MustHave {
			if product.HasFeature(f) {
				matched++
			} else {
				missing = append(missing, f)
			}
		}
		mustFraction = float64(matched) / float64(len(query.MustHave))
	}

	niceFraction := 0.0
	if len(query.NiceToHave) > 0 {
		matched := 0
		for _, f := range query.NiceToHave {
			if product.HasFeature(f) {
				matched++
			}
		}
		niceFraction = float64(matched) / float64(len(query.NiceToHave))
	} else if len(missing) == 0 {
		// All must-haves present and nothing optional requested.
		niceFraction = 1.0
	}

	return utils.Clamp01(0.75*mustFraction + 0.25*niceFraction), missing
}

// dealScore rewards offers priced below their trailing historical average.
// A 20% discount saturates at 1.0; prices above the average decay toward 0.
func dealScore(best *types.Offer) float64 {
	if best == nil {
		return neutralScore
	}
	avg := best.HistoricalAverage()
	if avg <= 0 {
		return neutralScore
	}
	discount := (avg - best.Price.Amount) / avg
	return utils.Clamp01(0.5 + discount*2.5)
}

func availabilityScore(best *types.Offer) float64 {
	if best == nil || !best.InStock {
		return 0
	}
	return 1
}
