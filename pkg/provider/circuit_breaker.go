package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

func newBreaker(cfg config.CircuitBreakerConfig, logger *slog.Logger, name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Warn("circuit breaker tripped",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			}
		},
	}
	return gobreaker.NewCircuitBreaker(st)
}

// BreakerSearcher wraps a ProductSearcher with circuit breaking.
type BreakerSearcher struct {
	inner ProductSearcher
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerSearcher creates a circuit-breaking product searcher.
func NewBreakerSearcher(inner ProductSearcher, cfg config.CircuitBreakerConfig, logger *slog.Logger, name string) *BreakerSearcher {
	return &BreakerSearcher{inner: inner, cb: newBreaker(cfg, logger, name)}
}

// Search implements ProductSearcher
func (b *BreakerSearcher) Search(ctx context.Context, query *types.UserQuery) ([]types.Product, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Product), nil
}

// BreakerOffers wraps an OfferProvider with circuit breaking.
type BreakerOffers struct {
	inner OfferProvider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerOffers creates a circuit-breaking offer provider.
func NewBreakerOffers(inner OfferProvider, cfg config.CircuitBreakerConfig, logger *slog.Logger, name string) *BreakerOffers {
	return &BreakerOffers{inner: inner, cb: newBreaker(cfg, logger, name)}
}

// Offers implements OfferProvider
func (b *BreakerOffers) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Offers(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Offer), nil
}

// BreakerReviews wraps a ReviewProvider with circuit breaking.
type BreakerReviews struct {
	inner ReviewProvider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerReviews creates a circuit-breaking review provider.
func NewBreakerReviews(inner ReviewProvider, cfg config.CircuitBreakerConfig, logger *slog.Logger, name string) *BreakerReviews {
	return &BreakerReviews{inner: inner, cb: newBreaker(cfg, logger, name)}
}

// FetchReviews implements ReviewProvider
func (b *BreakerReviews) FetchReviews(ctx context.Context, product *types.Product, limit int) ([]types.Review, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.FetchReviews(ctx, product, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Review), nil
}
