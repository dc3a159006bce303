package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int
	// InitialDelay is the initial delay before the first retry (default: 500ms)
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries (default: 15 seconds)
	MaxDelay time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff (default: 2.0)
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          15 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func (c *RetryConfig) normalize() *RetryConfig {
	if c == nil {
		return DefaultRetryConfig()
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 15 * time.Second
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = 2.0
	}
	return c
}

// calculateDelay calculates the delay for a given retry attempt using exponential backoff
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffMultiplier, float64(attempt-1))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	return time.Duration(delay)
}

// doWithRetry runs fn with exponential backoff, retrying only retryable errors.
func doWithRetry[T any](ctx context.Context, cfg *RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(cfg.calculateDelay(attempt)):
			case <-ctx.Done():
				return zero, fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

// RetrySearcher wraps a ProductSearcher with retry logic
type RetrySearcher struct {
	inner  ProductSearcher
	config *RetryConfig
}

// NewRetrySearcher creates a new retry wrapper for a product searcher
func NewRetrySearcher(inner ProductSearcher, config *RetryConfig) *RetrySearcher {
	return &RetrySearcher{inner: inner, config: config.normalize()}
}

// Search implements ProductSearcher with retry logic
func (r *RetrySearcher) Search(ctx context.Context, query *types.UserQuery) ([]types.Product, error) {
	return doWithRetry(ctx, r.config, func() ([]types.Product, error) {
		return r.inner.Search(ctx, query)
	})
}

// RetryOffers wraps an OfferProvider with retry logic
type RetryOffers struct {
	inner  OfferProvider
	config *RetryConfig
}

// NewRetryOffers creates a new retry wrapper for an offer provider
func NewRetryOffers(inner OfferProvider, config *RetryConfig) *RetryOffers {
	return &RetryOffers{inner: inner, config: config.normalize()}
}

// Offers implements OfferProvider with retry logic
func (r *RetryOffers) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	return doWithRetry(ctx, r.config, func() ([]types.Offer, error) {
		return r.inner.Offers(ctx, product)
	})
}

// RetryReviews wraps a ReviewProvider with retry logic
type RetryReviews struct {
	inner  ReviewProvider
	config *RetryConfig
}

// NewRetryReviews creates a new retry wrapper for a review provider
func NewRetryReviews(inner ReviewProvider, config *RetryConfig) *RetryReviews {
	return &RetryReviews{inner: inner, config: config.normalize()}
}

// FetchReviews implements ReviewProvider with retry logic
func (r *RetryReviews) FetchReviews(ctx context.Context, product *types.Product, limit int) ([]types.Review, error) {
	return doWithRetry(ctx, r.config, func() ([]types.Review, error) {
		return r.inner.FetchReviews(ctx, product, limit)
	})
}

// isRetryableError determines if a provider error is retryable
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return false
	}

	errMsg := strings.ToLower(err.Error())

	retryablePatterns := []string{
		"500", "internal server error",
		"502", "bad gateway",
		"503", "service unavailable",
		"504", "gateway timeout",
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
		"rate limit",
		"too many requests",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
