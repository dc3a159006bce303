// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// MaxQueryLength bounds the accepted query text.
const MaxQueryLength = 2000

// MaxTopK bounds how many recommendations a single request may ask for.
const MaxTopK = 50

// Validation errors
var (
	ErrQueryRequired = errors.New("query cannot be empty")
	ErrQueryTooLong  = errors.New("query exceeds maximum length")
	ErrInvalidTopK   = errors.New("top_k must be between 0 and 50")
	ErrInvalidBudget = errors.New("budget cannot be negative")
)

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	Query      string   `json:"query" binding:"required"`
	MustHave   []string `json:"must_have,omitempty"`
	NiceToHave []string `json:"nice_to_have,omitempty"`
	Budget     float64  `json:"budget,omitempty"`
	Category   string   `json:"category,omitempty"`
	TopK       int      `json:"top_k,omitempty"`
}

// Validate performs validation on RecommendRequest
func (r *RecommendRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrQueryRequired
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if r.TopK < 0 || r.TopK > MaxTopK {
		return ErrInvalidTopK
	}
	if r.Budget < 0 {
		return ErrInvalidBudget
	}
	return nil
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrQueryRequired
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
