package types

import "time"

// ContextKey is the type used for values stored on request contexts.
type ContextKey string

// Context keys propagated from transport headers into the pipeline.
const (
	ContextKeyUserID        ContextKey = "user_id"
	ContextKeySessionID     ContextKey = "session_id"
	ContextKeyRequestSource ContextKey = "request_source"
)

// Recommendation is a single ranked result.
type Recommendation struct {
	Product   Product `json:"product" mapstructure:"product"`
	BestOffer *Offer  `json:"best_offer,omitempty" mapstructure:"best_offer"`
	// Score is the composite relevance score in [0,1].
	Score float64 `json:"score" mapstructure:"score"`
	// Rationale is a short human-readable explanation of the score.
	Rationale string `json:"rationale,omitempty" mapstructure:"rationale"`
}

// RecommendationResult is the full response for one query.
type RecommendationResult struct {
	Query           UserQuery        `json:"query" mapstructure:"query"`
	Recommendations []Recommendation `json:"recommendations" mapstructure:"recommendations"`
	// Candidates is the number of products considered before ranking.
	Candidates  int       `json:"candidates" mapstructure:"candidates"`
	GeneratedAt time.Time `json:"generated_at" mapstructure:"generated_at"`
}
