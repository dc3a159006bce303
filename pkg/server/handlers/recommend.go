// Package handlers implements the gin handlers of the HTTP API.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	commerce "github.com/patilgayatri22/agentic-ecommerce"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/server/dto"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// Service is the slice of the recommendation client the handlers need.
type Service interface {
	Recommend(ctx context.Context, raw string, opts *commerce.QueryOptions) (*types.RecommendationResult, error)
	Search(ctx context.Context, raw string) ([]types.Product, error)
}

// RecommendHandler handles recommendation and search requests
type RecommendHandler struct {
	service Service
	logger  *slog.Logger
}

// NewRecommendHandler creates a new recommend handler
func NewRecommendHandler(service Service, logger *slog.Logger) *RecommendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendHandler{service: service, logger: logger}
}

// Recommend handles POST /api/v1/recommend
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	opts := &commerce.QueryOptions{
		MustHave:   req.MustHave,
		NiceToHave: req.NiceToHave,
		Budget:     req.Budget,
		Category:   req.Category,
		TopK:       req.TopK,
	}

	result, err := h.service.Recommend(c.Request.Context(), req.Query, opts)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Search handles POST /api/v1/search - raw candidates without scoring
func (h *RecommendHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	products, err := h.service.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"products": products,
		"count":    len(products),
	})
}

func (h *RecommendHandler) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, types.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "pipeline_error", Message: err.Error()})
}
