/*
Package provider implements the data-fetching agents of the recommendation
pipeline: product search, retailer offers with price history, and customer
reviews.

Each concern is an interface with a mock implementation (deterministic, used
for demos and tests) and a live HTTP implementation (Icecat for product
search, RapidAPI for offers and reviews). Live providers are wrapped with
retry, circuit-breaker and optional badger-backed caching decorators by the
factory.

Usage:

	set, err := provider.New(cfg, slog.Default())
	products, err := set.Search.Search(ctx, query)
	offers, err := set.Offers.Offers(ctx, &products[0])
	reviews, err := set.Reviews.FetchReviews(ctx, &products[0], 20)
*/
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// Provider errors
var (
	// ErrMissingToken is returned when a live provider is selected without
	// its API credential.
	ErrMissingToken = errors.New("missing API token for live provider")
	// ErrUnsupportedDriver is returned for unknown driver names.
	ErrUnsupportedDriver = errors.New("unsupported provider driver")
)

// ProductSearcher finds candidate products for a query.
type ProductSearcher interface {
	Search(ctx context.Context, query *types.UserQuery) ([]types.Product, error)
}

// OfferProvider fetches retailer offers (with price history) for a product.
type OfferProvider interface {
	Offers(ctx context.Context, product *types.Product) ([]types.Offer, error)
}

// ReviewProvider fetches customer reviews for a product.
type ReviewProvider interface {
	FetchReviews(ctx context.Context, product *types.Product, limit int) ([]types.Review, error)
}

// Driver selects a provider set.
type Driver string

const (
	// DriverMock serves deterministic catalog data; no credentials needed.
	DriverMock Driver = "mock"
	// DriverLive talks to the Icecat and RapidAPI services.
	DriverLive Driver = "live"
)

// Set bundles the three agents used by the pipeline.
type Set struct {
	Search  ProductSearcher
	Offers  OfferProvider
	Reviews ReviewProvider

	closers []func() error
}

// Close releases resources held by decorators (e.g. the cache database).
func (s *Set) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New builds a provider Set from configuration. Mock providers are returned
// as-is; live providers are wrapped with retry, circuit breaking and, when
// enabled, a badger-backed cache.
func New(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch Driver(cfg.Providers.Driver) {
	case DriverMock, "":
		mock, err := NewMockSet()
		if err != nil {
			return nil, fmt.Errorf("failed to build mock providers: %w", err)
		}
		return mock, nil

	case DriverLive:
		return newLiveSet(cfg, logger)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Providers.Driver)
	}
}

func newLiveSet(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	if cfg.Providers.Icecat.Token == "" {
		return nil, fmt.Errorf("%w: ICECAT_TOKEN", ErrMissingToken)
	}
	if cfg.Providers.RapidAPI.Key == "" {
		return nil, fmt.Errorf("%w: RAPIDAPI_KEY", ErrMissingToken)
	}

	retryCfg := &RetryConfig{MaxRetries: cfg.Providers.RetryMax}

	var search ProductSearcher = NewIcecatSearcher(cfg.Providers.Icecat, cfg.Providers.TimeoutSeconds)
	search = NewRetrySearcher(search, retryCfg)

	rapid := NewRapidAPIClient(cfg.Providers.RapidAPI, cfg.Providers.TimeoutSeconds)
	var offers OfferProvider = NewRetryOffers(rapid, retryCfg)
	var reviews ReviewProvider = NewRetryReviews(rapid, retryCfg)

	if cfg.CircuitBreaker.Enabled {
		search = NewBreakerSearcher(search, cfg.CircuitBreaker, logger, "icecat-search")
		offers = NewBreakerOffers(offers, cfg.CircuitBreaker, logger, "rapidapi-offers")
		reviews = NewBreakerReviews(reviews, cfg.CircuitBreaker, logger, "rapidapi-reviews")
	}

	set := &Set{Search: search, Offers: offers, Reviews: reviews}

	if cfg.Cache.Enabled {
		cache, err := NewCache(cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open provider cache: %w", err)
		}
		set.Offers = cache.WrapOffers(set.Offers)
		set.Reviews = cache.WrapReviews(set.Reviews)
		set.closers = append(set.closers, cache.Close)
	}

	return set, nil
}
