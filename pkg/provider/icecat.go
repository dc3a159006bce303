package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/queryparse"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// IcecatSearcher finds products via the Icecat open catalog API.
type IcecatSearcher struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewIcecatSearcher creates a product searcher backed by Icecat.
func NewIcecatSearcher(cfg config.IcecatConfig, timeoutSeconds int) *IcecatSearcher {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IcecatSearcher{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// icecatProduct is the subset of the Icecat search response we consume.
type icecatProduct struct {
	ProductID   string `json:"product_id"`
	Title       string `json:"title"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"summary_description"`
	Features    []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"features"`
}

type icecatSearchResponse struct {
	Products []icecatProduct `json:"products"`
}

// Search implements ProductSearcher against the Icecat search endpoint.
func (s *IcecatSearcher) Search(ctx context.Context, query *types.UserQuery) ([]types.Product, error) {
	if query == nil || query.Raw == "" {
		return nil, types.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", query.Raw)
	params.Set("limit", strconv.Itoa(searchLimit))
	if query.Category != "" {
		params.Set("category", query.Category)
	}

	endpoint := s.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-token", s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("icecat search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read icecat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError struct {
			Detail string `json:"detail"`
		}
		json.Unmarshal(body, &apiError)
		return nil, &APIError{Provider: "icecat", StatusCode: resp.StatusCode, Message: apiError.Detail}
	}

	var result icecatSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode icecat response: %w", err)
	}

	products := make([]types.Product, 0, len(result.Products))
	for _, p := range result.Products {
		features := make([]string, 0, len(p.Features))
		for _, f := range p.Features {
			features = append(features, queryparse.NormalizeFeature(f.Name))
		}
		products = append(products, types.Product{
			ID:          p.ProductID,
			Title:       p.Title,
			Brand:       p.Brand,
			Category:    p.Category,
			Description: p.Description,
			Features:    features,
		})
	}
	return products, nil
}
