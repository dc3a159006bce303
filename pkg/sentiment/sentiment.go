/*
Package sentiment turns customer reviews into a single sentiment score in
[0, 1], where 0 is uniformly negative, 0.5 neutral and 1 uniformly positive.

Two analyzers are available: a HuggingFace inference API client (used when
HUGGINGFACE_API_TOKEN is set) and an offline lexicon analyzer that needs no
credentials. Both blend the text signal with the review star ratings so a
product with glowing text but one-star ratings does not score as positive.
*/
package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/utils"
)

// NeutralScore is reported when there is no review signal at all.
const NeutralScore = 0.5

// Blend weights between the text-derived score and the star ratings.
const (
	textWeight   = 0.7
	ratingWeight = 0.3
)

// ErrUnsupportedProvider is returned for unknown analyzer names.
var ErrUnsupportedProvider = errors.New("unsupported sentiment provider")

// Analyzer scores a set of reviews for one product.
type Analyzer interface {
	Analyze(ctx context.Context, reviews []types.Review) (float64, error)
}

// Provider identifies an analyzer implementation.
type Provider string

const (
	// ProviderHuggingFace calls the HuggingFace inference API.
	ProviderHuggingFace Provider = "huggingface"
	// ProviderLexicon scores reviews offline with a word list.
	ProviderLexicon Provider = "lexicon"
)

// New builds the analyzer selected by the configuration.
func New(cfg config.SentimentConfig) (Analyzer, error) {
	switch Provider(cfg.Provider) {
	case ProviderLexicon, "":
		return NewLexiconAnalyzer(), nil
	case ProviderHuggingFace:
		if cfg.Token == "" {
			return nil, fmt.Errorf("huggingface analyzer requires HUGGINGFACE_API_TOKEN")
		}
		return &FallbackAnalyzer{
			Primary:  NewHuggingFaceAnalyzer(cfg),
			Fallback: NewLexiconAnalyzer(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// FallbackAnalyzer tries Primary and, on any error, scores the same reviews
// with Fallback so a remote outage never empties the sentiment signal.
type FallbackAnalyzer struct {
	Primary  Analyzer
	Fallback Analyzer
}

// Analyze implements Analyzer.
func (a *FallbackAnalyzer) Analyze(ctx context.Context, reviews []types.Review) (float64, error) {
	score, err := a.Primary.Analyze(ctx, reviews)
	if err == nil {
		return score, nil
	}
	if a.Fallback == nil {
		return NeutralScore, err
	}
	return a.Fallback.Analyze(ctx, reviews)
}

// blendWithRating mixes a text sentiment score with the star rating mapped
// onto [0, 1]. Reviews without a rating keep the pure text score.
func blendWithRating(textScore float64, rating float64) float64 {
	if rating <= 0 {
		return utils.Clamp01(textScore)
	}
	ratingScore := (rating - 1) / 4
	return utils.Clamp01(textWeight*textScore + ratingWeight*ratingScore)
}

// aggregate averages per-review scores, returning NeutralScore for an empty
// set.
func aggregate(scores []float64) float64 {
	if len(scores) == 0 {
		return NeutralScore
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return utils.Clamp01(sum / float64(len(scores)))
}
