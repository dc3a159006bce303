package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// Cache is a badger-backed read-through cache for offer and review lookups.
// Entries expire via badger's native TTL support. Cache failures degrade to
// the wrapped provider; they are never surfaced to callers.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache opens (or creates) a badger store in cfg.Dir.
func NewCache(cfg config.CacheConfig, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", cfg.Dir, err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{db: db, ttl: ttl, logger: logger}, nil
}

// Close releases the underlying badger database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// WrapOffers returns a read-through caching decorator around inner.
func (c *Cache) WrapOffers(inner OfferProvider) OfferProvider {
	return &cachedOffers{cache: c, inner: inner}
}

// WrapReviews returns a read-through caching decorator around inner.
func (c *Cache) WrapReviews(inner ReviewProvider) ReviewProvider {
	return &cachedReviews{cache: c, inner: inner}
}

func (c *Cache) get(key string, value interface{}) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, value)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (c *Cache) set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

type cachedOffers struct {
	cache *Cache
	inner OfferProvider
}

func (c *cachedOffers) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	if product == nil || product.ID == "" {
		return c.inner.Offers(ctx, product)
	}
	key := "offers/" + product.ID
	var cached []types.Offer
	if c.cache.get(key, &cached) {
		c.cache.logger.Debug("cache hit", "key", key)
		return cached, nil
	}

	offers, err := c.inner.Offers(ctx, product)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, offers)
	return offers, nil
}

type cachedReviews struct {
	cache *Cache
	inner ReviewProvider
}

func (c *cachedReviews) FetchReviews(ctx context.Context, product *types.Product, limit int) ([]types.Review, error) {
	if product == nil || product.ID == "" {
		return c.inner.FetchReviews(ctx, product, limit)
	}
	key := fmt.Sprintf("reviews/%s/%d", product.ID, limit)
	var cached []types.Review
	if c.cache.get(key, &cached) {
		c.cache.logger.Debug("cache hit", "key", key)
		return cached, nil
	}

	reviews, err := c.inner.FetchReviews(ctx, product, limit)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, reviews)
	return reviews, nil
}
