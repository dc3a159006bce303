package commerce

import (
	"context"
	"errors"
	"log/slog"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/provider"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/queryparse"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/scoring"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/sentiment"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/telemetry"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

var (
	// ErrNoProviders is returned when a client is built without a provider set.
	ErrNoProviders = errors.New("commerce: provider set is required")
	// ErrEmptyQuery is returned for blank query text.
	ErrEmptyQuery = types.ErrEmptyQuery
)

// defaultReviewLimit is how many reviews are fetched per product for
// sentiment analysis.
const defaultReviewLimit = 12

// Recommender is the main interface for producing ranked product
// recommendations from natural-language shopping queries.
type Recommender interface {
	// Recommend runs the full pipeline for one query: parse, search, enrich
	// with offers and review sentiment, score and diversify. Options may be
	// nil. A query that matches nothing yields an empty result, not an error.
	Recommend(ctx context.Context, raw string, opts *QueryOptions) (*types.RecommendationResult, error)

	// Close releases provider and telemetry resources.
	Close() error
}

// QueryOptions overrides parsed query fields, typically from CLI flags or
// request bodies.
type QueryOptions struct {
	// MustHave features required of every recommendation; merged with
	// whatever the parser extracts.
	MustHave []string
	// NiceToHave features that boost but do not gate candidates.
	NiceToHave []string
	// Budget overrides the parsed spending ceiling when positive.
	Budget float64
	// Category overrides the inferred product category when non-empty.
	Category string
	// TopK overrides the configured result count when positive.
	TopK int
}

// Config tunes the recommendation pipeline.
type Config struct {
	// TopK is the number of recommendations returned (default 5).
	TopK int
	// MMRLambda balances relevance against diversity in [0,1] (default 0.7).
	MMRLambda float64
	// MaxConcurrency bounds concurrent per-product enrichment calls.
	MaxConcurrency int
	// ReviewLimit is the number of reviews fetched per product.
	ReviewLimit int
	// Weights are the scoring signal weights; zero value means defaults.
	Weights scoring.Weights
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		TopK:        5,
		MMRLambda:   scoring.DefaultMMRLambda,
		ReviewLimit: defaultReviewLimit,
		Weights:     scoring.DefaultWeights(),
	}
}

// Client implements Recommender over a provider set, a sentiment analyzer
// and a query planner.
type Client struct {
	providers *provider.Set
	analyzer  sentiment.Analyzer
	planner   queryparse.Planner
	scorer    *scoring.Scorer
	recorder  *telemetry.Recorder
	logger    *slog.Logger
	config    Config
}

// NewClient creates a Client from explicit components. The planner may be
// nil, in which case the rule parser is used. The recorder may be nil to
// disable telemetry.
func NewClient(providers *provider.Set, analyzer sentiment.Analyzer, planner queryparse.Planner, cfg *Config, logger *slog.Logger) (*Client, error) {
	if providers == nil {
		return nil, ErrNoProviders
	}
	if analyzer == nil {
		analyzer = sentiment.NewLexiconAnalyzer()
	}
	if planner == nil {
		planner = queryparse.RuleParser{}
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MMRLambda <= 0 || cfg.MMRLambda > 1 {
		cfg.MMRLambda = scoring.DefaultMMRLambda
	}
	if cfg.ReviewLimit <= 0 {
		cfg.ReviewLimit = defaultReviewLimit
	}
	if cfg.Weights == (scoring.Weights{}) {
		cfg.Weights = scoring.DefaultWeights()
	}
	if logger == nil {
		logger = slog.Default()
	}

	scorer, err := scoring.NewScorer(cfg.Weights)
	if err != nil {
		return nil, err
	}

	return &Client{
		providers: providers,
		analyzer:  analyzer,
		planner:   planner,
		scorer:    scorer,
		logger:    logger,
		config:    *cfg,
	}, nil
}

// NewFromConfig wires a full Client from application configuration:
// providers, sentiment analyzer, optional LLM planner and optional telemetry.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providers, err := provider.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	analyzer, err := sentiment.New(cfg.Sentiment)
	if err != nil {
		return nil, err
	}

	var planner queryparse.Planner = queryparse.RuleParser{}
	if cfg.Planner.Enabled {
		primary, err := queryparse.NewOpenAIPlanner(cfg.Planner.APIKey, queryparse.PlannerConfig{
			Model:   cfg.Planner.Model,
			BaseURL: cfg.Planner.BaseURL,
		})
		if err != nil {
			logger.Warn("LLM planner unavailable, using rule parser", "error", err)
		} else {
			planner = queryparse.FallbackPlanner{Primary: primary}
		}
	}

	clientCfg := DefaultConfig()
	if cfg.Scoring.TopK > 0 {
		clientCfg.TopK = cfg.Scoring.TopK
	}
	if cfg.Scoring.MMRLambda > 0 {
		clientCfg.MMRLambda = cfg.Scoring.MMRLambda
	}
	clientCfg.MaxConcurrency = cfg.Providers.MaxConcurrency

	client, err := NewClient(providers, analyzer, planner, clientCfg, logger)
	if err != nil {
		providers.Close()
		return nil, err
	}

	if cfg.Telemetry.ParquetPath != "" {
		recorder, err := telemetry.NewRecorder(cfg.Telemetry.ParquetPath)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		} else {
			client.recorder = recorder
		}
	}

	return client, nil
}

// Scorer exposes the scorer, mainly for tests and the server's explain
// endpoint.
func (c *Client) Scorer() *scoring.Scorer {
	return c.scorer
}

// Close releases provider and telemetry resources.
func (c *Client) Close() error {
	var firstErr error
	if c.recorder != nil {
		if err := c.recorder.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.providers.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
