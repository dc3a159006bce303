package commerce

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/provider"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	providers, err := provider.NewMockSet()
	require.NoError(t, err)

	client, err := NewClient(providers, nil, nil, nil, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecommendHeadphonesUnderBudget(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "wireless noise cancelling headphones under $150", &QueryOptions{
		MustHave: []string{"noise-cancelling"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)
	assert.LessOrEqual(t, len(result.Recommendations), 5)
	assert.Greater(t, result.Candidates, 0)

	// Parsed query round-trips into the result.
	require.NotNil(t, result.Query.Budget)
	assert.InDelta(t, 150.0, result.Query.Budget.Amount, 0.001)
	assert.Contains(t, result.Query.MustHave, "noise_cancelling")

	for i, rec := range result.Recommendations {
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 1.0)
		assert.NotEmpty(t, rec.Rationale)
		require.NotNil(t, rec.BestOffer, "every recommendation needs a purchasable offer")
		if i > 0 {
			assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, rec.Score, "scores must be descending")
		}
	}

	// The top pick must actually carry the required feature.
	assert.True(t, result.Recommendations[0].Product.HasFeature("noise_cancelling"))
}

func TestRecommendSpreadsBrands(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "headphones", nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Recommendations), 3)

	brands := make(map[string]bool)
	for _, rec := range result.Recommendations {
		brands[rec.Product.Brand] = true
	}
	assert.GreaterOrEqual(t, len(brands), 2, "diversification should surface multiple brands")
}

func TestRecommendNoMatchesIsEmptyNotError(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "zzzz qqqq xyzzy", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Zero(t, result.Candidates)
}

func TestRecommendEmptyQuery(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Recommend(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}

func TestRecommendComparativeQuery(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "cordless vacuum vs robot vacuum", nil)
	require.NoError(t, err)
	assert.True(t, result.Query.Comparative)
	require.GreaterOrEqual(t, len(result.Recommendations), 2, "comparative queries should surface both alternatives")
}

func TestRecommendBudgetOverride(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "laptop for travel", &QueryOptions{Budget: 800})
	require.NoError(t, err)
	require.NotNil(t, result.Query.Budget)
	assert.InDelta(t, 800.0, result.Query.Budget.Amount, 0.001)
	require.NotEmpty(t, result.Recommendations)

	// With an $800 ceiling the $749 NovaBook Air should outrank the $1099 Pro.
	top := result.Recommendations[0]
	require.NotNil(t, top.BestOffer)
	assert.Less(t, top.BestOffer.Price.Amount, 900.0)
}

func TestRecommendCategoryOverride(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "something quiet for the office", &QueryOptions{Category: "audio"})
	require.NoError(t, err)
	assert.Equal(t, "audio", result.Query.Category)
	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		assert.Equal(t, "audio", rec.Product.Category)
	}
}

func TestRecommendTopKOverride(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Recommend(context.Background(), "headphones", &QueryOptions{TopK: 2})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
}

// failingOffers always errors, simulating a price API outage.
type failingOffers struct{}

func (failingOffers) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	return nil, errors.New("price service unavailable")
}

func TestRecommendDegradesWhenOffersFail(t *testing.T) {
	providers, err := provider.NewMockSet()
	require.NoError(t, err)
	providers.Offers = failingOffers{}

	client, err := NewClient(providers, nil, nil, nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	result, err := client.Recommend(context.Background(), "wireless headphones", nil)
	require.NoError(t, err, "an offers outage must not fail the whole request")
	require.NotEmpty(t, result.Recommendations)

	// Without offers there is no purchasable listing, but scoring still ran.
	for _, rec := range result.Recommendations {
		assert.Nil(t, rec.BestOffer)
		assert.GreaterOrEqual(t, rec.Score, 0.0)
	}
}

// panickyOffers panics instead of returning, simulating a provider bug.
type panickyOffers struct{}

func (panickyOffers) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	panic("offer provider exploded")
}

func TestRecommendDegradesWhenOffersPanic(t *testing.T) {
	providers, err := provider.NewMockSet()
	require.NoError(t, err)
	providers.Offers = panickyOffers{}

	client, err := NewClient(providers, nil, nil, nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	result, err := client.Recommend(context.Background(), "wireless headphones", nil)
	require.NoError(t, err, "a panicking offer provider must not fail the whole request")
	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		assert.Nil(t, rec.BestOffer)
	}
}

// panickyPlanner panics on the request goroutine itself.
type panickyPlanner struct{}

func (panickyPlanner) Plan(ctx context.Context, raw string) (*types.UserQuery, error) {
	panic("planner exploded")
}

func TestRecommendRecoversPipelinePanic(t *testing.T) {
	providers, err := provider.NewMockSet()
	require.NoError(t, err)

	client, err := NewClient(providers, nil, panickyPlanner{}, nil, testLogger())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Recommend(context.Background(), "headphones", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoProviders)
}
