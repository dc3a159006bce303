package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

func TestMockSearchReturnsRelevantProducts(t *testing.T) {
	set, err := NewMockSet()
	require.NoError(t, err)

	query := &types.UserQuery{
		Raw:      "wireless noise cancelling headphones under $150",
		Category: "audio",
		MustHave: []string{"noise_cancelling", "wireless"},
		Budget:   ptrMoney(150),
	}

	products, err := set.Search.Search(context.Background(), query)
	require.NoError(t, err)

	// Every audio catalog entry matches the category, filling the page.
	require.Len(t, products, searchLimit)
	for _, p := range products {
		assert.Equal(t, "audio", p.Category, "results should stay inside the query category")
	}

	// The best term match should carry the requested features.
	assert.True(t, products[0].HasFeature("noise_cancelling"))
	assert.True(t, products[0].HasFeature("wireless"))
}

func TestMockSearchDeterministic(t *testing.T) {
	set, err := NewMockSet()
	require.NoError(t, err)

	query := &types.UserQuery{Raw: "robot vacuum with app control", Category: "home"}

	first, err := set.Search.Search(context.Background(), query)
	require.NoError(t, err)
	second, err := set.Search.Search(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMockSearchEmptyQuery(t *testing.T) {
	set, err := NewMockSet()
	require.NoError(t, err)

	_, err = set.Search.Search(context.Background(), &types.UserQuery{Raw: "   "})
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}

func TestMockOffers(t *testing.T) {
	set, err := NewMockSet()
	require.NoError(t, err)

	product := &types.Product{ID: "aud-001", Title: "SonicWave Pro ANC Wireless Headphones"}
	offers, err := set.Offers.Offers(context.Background(), product)
	require.NoError(t, err)
	require.Len(t, offers, len(mockRetailers))

	for _, offer := range offers {
		assert.NotEmpty(t, offer.Retailer)
		assert.Greater(t, offer.Price.Amount, 0.0)
		assert.Len(t, offer.PriceHistory, 30)
		assert.Positive(t, offer.HistoricalAverage())
	}

	// Deterministic across calls.
	again, err := set.Offers.Offers(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, offers, again)
}

func TestMockReviews(t *testing.T) {
	set, err := NewMockSet()
	require.NoError(t, err)

	product := &types.Product{ID: "aud-005", Title: "AcoustiMax QuietTour ANC Headphones"}
	reviews, err := set.Reviews.FetchReviews(context.Background(), product, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 10)

	fiveStars := 0
	for _, r := range reviews {
		assert.NotEmpty(t, r.Text)
		assert.Contains(t, []float64{5, 3, 2}, r.Rating)
		if r.Rating == 5 {
			fiveStars++
		}
	}
	// A 4.8-rated product should skew positive.
	assert.GreaterOrEqual(t, fiveStars, 6)

	_, err = set.Reviews.FetchReviews(context.Background(), product, 0)
	assert.ErrorIs(t, err, types.ErrInvalidLimit)
}

func TestFactoryMockDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.Driver = "mock"

	set, err := New(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, set.Search)
	assert.NotNil(t, set.Offers)
	assert.NotNil(t, set.Reviews)
}

func TestFactoryLiveRequiresTokens(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.Driver = "live"

	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestFactoryUnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.Driver = "dynamodb"

	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

// flakySearcher fails a fixed number of times before succeeding.
type flakySearcher struct {
	failures int
	calls    int
	err      error
}

func (f *flakySearcher) Search(ctx context.Context, query *types.UserQuery) ([]types.Product, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []types.Product{{ID: "p1", Title: "Recovered"}}, nil
}

func TestRetrySearcherRecoversFromTransientErrors(t *testing.T) {
	inner := &flakySearcher{failures: 2, err: errors.New("503 service unavailable")}
	retrying := NewRetrySearcher(inner, &RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	})

	products, err := retrying.Search(context.Background(), &types.UserQuery{Raw: "anything"})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrySearcherFailsFastOnPermanentErrors(t *testing.T) {
	inner := &flakySearcher{failures: 10, err: &APIError{Provider: "icecat", StatusCode: http.StatusUnauthorized, Message: "bad token"}}
	retrying := NewRetrySearcher(inner, &RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
	})

	_, err := retrying.Search(context.Background(), &types.UserQuery{Raw: "anything"})
	require.Error(t, err)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1, inner.calls, "permanent errors must not be retried")
}

func TestRetryExhaustsAndWrapsLastError(t *testing.T) {
	inner := &flakySearcher{failures: 10, err: errors.New("gateway timeout")}
	retrying := NewRetrySearcher(inner, &RetryConfig{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
	})

	_, err := retrying.Search(context.Background(), &types.UserQuery{Raw: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 retries")
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	inner := &flakySearcher{failures: 100, err: errors.New("connection refused")}
	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          30,
		ReadyToTripRatio: 0.5,
	}
	breaking := NewBreakerSearcher(inner, cfg, testLogger(), "test-search")

	query := &types.UserQuery{Raw: "anything"}
	for i := 0; i < 3; i++ {
		_, err := breaking.Search(context.Background(), query)
		require.Error(t, err)
	}

	_, err := breaking.Search(context.Background(), query)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the provider")
}

// countingOffers records how many times the wrapped provider is hit.
type countingOffers struct {
	inner OfferProvider
	calls int
}

func (c *countingOffers) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	c.calls++
	return c.inner.Offers(ctx, product)
}

func TestCacheServesRepeatLookups(t *testing.T) {
	mock, err := NewMockProvider()
	require.NoError(t, err)

	cache, err := NewCache(config.CacheConfig{
		Enabled:    true,
		Dir:        t.TempDir(),
		TTLSeconds: 60,
	}, testLogger())
	require.NoError(t, err)
	defer cache.Close()

	counting := &countingOffers{inner: mock}
	cached := cache.WrapOffers(counting)

	product := &types.Product{ID: "hom-001", Title: "TurboVac V8 Cordless Stick Vacuum"}

	first, err := cached.Offers(context.Background(), product)
	require.NoError(t, err)
	second, err := cached.Offers(context.Background(), product)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls, "second lookup should be served from cache")
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Retailer, second[i].Retailer)
		assert.InDelta(t, first[i].Price.Amount, second[i].Price.Amount, 0.001)
	}
}

func TestIcecatSearcherMapsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-token", r.Header.Get("api-token"))
		assert.Equal(t, "gaming laptop", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"products":[{"product_id":"ic-1","title":"Gaming Laptop X","brand":"TitanRig","category":"computers","summary_description":"fast","features":[{"name":"RTX Graphics","value":"yes"}]}]}`)
	}))
	defer server.Close()

	searcher := NewIcecatSearcher(config.IcecatConfig{Token: "secret-token", BaseURL: server.URL}, 5)
	products, err := searcher.Search(context.Background(), &types.UserQuery{Raw: "gaming laptop"})
	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.Equal(t, "ic-1", products[0].ID)
	assert.Equal(t, "TitanRig", products[0].Brand)
	assert.Equal(t, []string{"rtx_graphics"}, products[0].Features)
}

func TestIcecatSearcherSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"detail":"invalid token"}`)
	}))
	defer server.Close()

	searcher := NewIcecatSearcher(config.IcecatConfig{Token: "bad", BaseURL: server.URL}, 5)
	_, err := searcher.Search(context.Background(), &types.UserQuery{Raw: "anything"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid token")
}

func TestRapidAPIOffersMapsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"offers":[{"shop_name":"TechMart","offer_url":"https://techmart.example.com/x","price":129.5,"currency":"USD","in_stock":true,"price_history":[{"date":"2026-08-01","price":140.0},{"date":"2026-08-15","price":135.0}]}]}`)
	}))
	defer server.Close()

	client := NewRapidAPIClient(config.RapidAPIConfig{Key: "rapid-key", BaseURL: server.URL}, 5)
	offers, err := client.Offers(context.Background(), &types.Product{ID: "x", Title: "X"})
	require.NoError(t, err)
	require.Len(t, offers, 1)

	assert.Equal(t, "TechMart", offers[0].Retailer)
	assert.True(t, offers[0].InStock)
	require.Len(t, offers[0].PriceHistory, 2)
	assert.InDelta(t, 137.5, offers[0].HistoricalAverage(), 0.001)
}

func TestRapidAPIReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"reviews":[{"author":"ana","text":"great product","rating":5,"date":"2026-07-20"}]}`)
	}))
	defer server.Close()

	client := NewRapidAPIClient(config.RapidAPIConfig{Key: "rapid-key", BaseURL: server.URL}, 5)
	reviews, err := client.FetchReviews(context.Background(), &types.Product{ID: "x", Title: "X"}, 5)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "ana", reviews[0].Author)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, 2026, reviews[0].CreatedAt.Year())
}

func ptrMoney(amount float64) *types.Money {
	m := types.NewMoney(amount)
	return &m
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
