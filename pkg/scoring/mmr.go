package scoring

import (
	"sort"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/utils"
)

// DefaultMMRLambda leans toward relevance over diversity.
const DefaultMMRLambda = 0.7

// Similarity bonuses stacked on top of the title term-vector cosine.
const (
	brandMatchBonus     = 0.25
	featureOverlapBonus = 0.15
)

// mmrPoolFactor bounds the selection pool. The greedy loop is quadratic in
// the pool size, so large candidate sets are first cut to the top
// mmrPoolFactor*k composite scores.
const mmrPoolFactor = 4

// Candidate pairs a scored product with its breakdown for selection.
type Candidate struct {
	Product   types.Product
	Score     float64
	Breakdown Breakdown
}

// Similarity estimates how interchangeable two products are, in [0,1].
// Title token overlap dominates; sharing a brand or a feature set pushes two
// products closer together so variants of one model count as duplicates.
func Similarity(a, b *types.Product) float64 {
	sim := utils.NewTermVector(a.Title).CosineSimilarity(utils.NewTermVector(b.Title))

	if a.Brand != "" && a.Brand == b.Brand {
		sim += brandMatchBonus
	}
	sim += featureOverlapBonus * utils.JaccardSimilarity(a.Features, b.Features)

	return utils.Clamp01(sim)
}

// Diversify selects up to k candidates by maximal marginal relevance:
// each round picks the candidate maximizing
//
//	lambda*score - (1-lambda)*maxSimilarity(already selected)
//
// so a near-duplicate of an already-selected product must beat it on score by
// a margin before it displaces a distinct alternative. The result is sorted
// by score descending. An empty candidate list yields nil.
func Diversify(candidates []Candidate, lambda float64, k int) []Candidate {
	if len(candidates) == 0 || k <= 0 {
		return nil
	}
	if lambda <= 0 || lambda > 1 {
		lambda = DefaultMMRLambda
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	pool := candidates
	if limit := mmrPoolFactor * k; len(pool) > limit {
		scored := make([]utils.ScoredItem[Candidate], len(pool))
		for i, c := range pool {
			scored[i] = utils.ScoredItem[Candidate]{Item: c, Score: c.Score}
		}
		top := utils.TopKByScore(scored, limit)
		pool = make([]Candidate, len(top))
		for i, s := range top {
			pool[i] = s.Item
		}
	}

	remaining := make([]Candidate, len(pool))
	copy(remaining, pool)

	selected := make([]Candidate, 0, k)
	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestValue := mmrValue(&remaining[0], selected, lambda)
		for i := 1; i < len(remaining); i++ {
			if v := mmrValue(&remaining[i], selected, lambda); v > bestValue {
				bestValue = v
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Score > selected[j].Score
	})
	return selected
}

func mmrValue(c *Candidate, selected []Candidate, lambda float64) float64 {
	maxSim := 0.0
	for i := range selected {
		if sim := Similarity(&c.Product, &selected[i].Product); sim > maxSim {
			maxSim = sim
		}
	}
	return lambda*c.Score - (1-lambda)*maxSim
}
