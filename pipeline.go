package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/queryparse"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/scoring"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/utils"
)

// Recommend implements Recommender. A panic anywhere in the pipeline
// surfaces as an error instead of taking down the caller.
func (c *Client) Recommend(ctx context.Context, raw string, opts *QueryOptions) (result *types.RecommendationResult, err error) {
	defer utils.RecoverAsError(&err)

	start := time.Now()

	query, err := c.buildQuery(ctx, raw, opts)
	if err != nil {
		return nil, err
	}

	topK := c.config.TopK
	if opts != nil && opts.TopK > 0 {
		topK = opts.TopK
	}

	result, err = c.run(ctx, query, topK)
	c.recorder.RecordResult(ctx, query, result, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.logger.Info("recommendations ready",
		"query", query.Raw,
		"candidates", result.Candidates,
		"recommended", len(result.Recommendations),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// Search returns the raw candidate products for a query without enrichment,
// scoring or diversification. It is the first pipeline stage exposed on its
// own for inspection.
func (c *Client) Search(ctx context.Context, raw string) ([]types.Product, error) {
	query, err := c.buildQuery(ctx, raw, nil)
	if err != nil {
		return nil, err
	}
	products, err := c.providers.Search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	return products, nil
}

// buildQuery plans the raw text and merges in explicit options.
func (c *Client) buildQuery(ctx context.Context, raw string, opts *QueryOptions) (*types.UserQuery, error) {
	query, err := c.planner.Plan(ctx, raw)
	if err != nil {
		return nil, err
	}

	if opts != nil {
		query.MustHave = queryparse.NormalizeFeatures(append(query.MustHave, opts.MustHave...))
		query.NiceToHave = queryparse.NormalizeFeatures(append(query.NiceToHave, opts.NiceToHave...))
		if opts.Budget > 0 {
			budget := types.NewMoney(opts.Budget)
			query.Budget = &budget
		}
		if opts.Category != "" {
			query.Category = opts.Category
		}
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}
	return query, nil
}

// run executes search, enrichment, scoring and diversification.
func (c *Client) run(ctx context.Context, query *types.UserQuery, topK int) (*types.RecommendationResult, error) {
	products, err := c.providers.Search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}

	result := &types.RecommendationResult{
		Query:       *query,
		Candidates:  len(products),
		GeneratedAt: time.Now().UTC(),
	}
	if len(products) == 0 {
		c.logger.Info("no products matched query", "query", query.Raw)
		return result, nil
	}

	enriched := c.enrich(ctx, products)

	candidates := make([]scoring.Candidate, 0, len(enriched))
	for i := range enriched {
		breakdown := c.scorer.Score(&enriched[i], query)
		candidates = append(candidates, scoring.Candidate{
			Product:   enriched[i],
			Score:     breakdown.Composite,
			Breakdown: breakdown,
		})
	}

	selected := scoring.Diversify(candidates, c.config.MMRLambda, topK)

	recommendations := make([]types.Recommendation, 0, len(selected))
	for i := range selected {
		cand := &selected[i]
		recommendations = append(recommendations, types.Recommendation{
			Product:   cand.Product,
			BestOffer: cand.Product.BestOffer(),
			Score:     cand.Score,
			Rationale: cand.Breakdown.Rationale(query.BudgetAmount()),
		})
	}
	result.Recommendations = recommendations
	return result, nil
}

// enrich attaches offers and review sentiment to every candidate
// concurrently. Enrichment failures degrade the individual candidate rather
// than failing the request: a product whose offers cannot be fetched is
// scored without them.
func (c *Client) enrich(ctx context.Context, products []types.Product) []types.Product {
	functions := make([]func() (types.Product, error), len(products))
	for i := range products {
		p := products[i]
		functions[i] = func() (types.Product, error) {
			return c.enrichOne(ctx, p), nil
		}
	}

	enriched, errs := utils.ExecuteWithResults(ctx, c.config.MaxConcurrency, functions...)
	for i, err := range errs {
		if err != nil {
			// Panic or cancellation inside a worker; fall back to the bare
			// search result for that slot.
			c.logger.Warn("enrichment worker failed", "product", products[i].ID, "error", err)
			enriched[i] = products[i]
		}
	}
	return enriched
}

// enrichOne fetches offers and the review signal for one product. The two
// stages touch disjoint product fields and run concurrently; each degrades
// independently on failure.
func (c *Client) enrichOne(ctx context.Context, product types.Product) types.Product {
	errs := utils.SemaphoreGather(ctx, 2,
		func() error {
			c.attachOffers(ctx, &product)
			return nil
		},
		func() error {
			c.attachReviewSignal(ctx, &product)
			return nil
		},
	)
	for _, err := range errs {
		if err != nil {
			// Panic or cancellation inside a stage; the product keeps
			// whatever the other stage attached.
			c.logger.Warn("enrichment stage failed", "product", product.ID, "error", err)
		}
	}
	return product
}

func (c *Client) attachOffers(ctx context.Context, product *types.Product) {
	offers, err := c.providers.Offers.Offers(ctx, product)
	if err != nil {
		c.logger.Warn("offer lookup failed", "product", product.ID, "error", err)
		return
	}
	product.Offers = offers
	c.logger.Debug("fetched offers", "product", product.ID, "offers", len(offers))
}

func (c *Client) attachReviewSignal(ctx context.Context, product *types.Product) {
	reviews, err := c.providers.Reviews.FetchReviews(ctx, product, c.config.ReviewLimit)
	if err != nil {
		c.logger.Warn("review lookup failed", "product", product.ID, "error", err)
		return
	}
	if len(reviews) > 0 && product.Rating == 0 {
		var sum float64
		for _, r := range reviews {
			sum += r.Rating
		}
		product.Rating = sum / float64(len(reviews))
	}

	score, err := c.analyzer.Analyze(ctx, reviews)
	if err != nil {
		c.logger.Warn("sentiment analysis failed", "product", product.ID, "error", err)
		return
	}
	product.SentimentScore = &score
}
