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
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// RapidAPIClient fetches retailer offers and customer reviews from a
// price-comparison API hosted on RapidAPI. It implements both OfferProvider
// and ReviewProvider.
type RapidAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRapidAPIClient creates a RapidAPI-backed offer and review client.
func NewRapidAPIClient(cfg config.RapidAPIConfig, timeoutSeconds int) *RapidAPIClient {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RapidAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.Key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type rapidOffer struct {
	Retailer string  `json:"shop_name"`
	URL      string  `json:"offer_url"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	InStock  bool    `json:"in_stock"`
	History  []struct {
		Date  string  `json:"date"`
		Price float64 `json:"price"`
	} `json:"price_history"`
}

type rapidOffersResponse struct {
	Offers []rapidOffer `json:"offers"`
}

type rapidReview struct {
	Author string  `json:"author"`
	Title  string  `json:"title"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
	Date   string  `json:"date"`
}

type rapidReviewsResponse struct {
	Reviews []rapidReview `json:"reviews"`
}

// Offers implements OfferProvider against the price-comparison endpoint.
func (c *RapidAPIClient) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	if product == nil || product.ID == "" {
		return nil, types.ErrEmptyID
	}

	params := url.Values{}
	params.Set("product", product.Title)
	params.Set("id", product.ID)

	var result rapidOffersResponse
	if err := c.get(ctx, "/offers", params, &result); err != nil {
		return nil, err
	}

	offers := make([]types.Offer, 0, len(result.Offers))
	for _, o := range result.Offers {
		currency := o.Currency
		if currency == "" {
			currency = types.DefaultCurrency
		}
		offer := types.Offer{
			Retailer: o.Retailer,
			URL:      o.URL,
			Price:    types.Money{Amount: o.Price, Currency: currency},
			InStock:  o.InStock,
		}
		for _, h := range o.History {
			recorded, err := time.Parse("2006-01-02", h.Date)
			if err != nil {
				continue
			}
			offer.PriceHistory = append(offer.PriceHistory, types.PricePoint{
				Price:      types.Money{Amount: h.Price, Currency: currency},
				RecordedAt: recorded,
			})
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// FetchReviews implements ReviewProvider against the reviews endpoint.
func (c *RapidAPIClient) FetchReviews(ctx context.Context, product *types.Product, limit int) ([]types.Review, error) {
	if product == nil || product.ID == "" {
		return nil, types.ErrEmptyID
	}
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	params := url.Values{}
	params.Set("product", product.Title)
	params.Set("id", product.ID)
	params.Set("limit", strconv.Itoa(limit))

	var result rapidReviewsResponse
	if err := c.get(ctx, "/reviews", params, &result); err != nil {
		return nil, err
	}

	reviews := make([]types.Review, 0, len(result.Reviews))
	for _, r := range result.Reviews {
		review := types.Review{
			Author: r.Author,
			Title:  r.Title,
			Text:   r.Text,
			Rating: r.Rating,
		}
		if created, err := time.Parse("2006-01-02", r.Date); err == nil {
			review.CreatedAt = created
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (c *RapidAPIClient) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rapidapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read rapidapi response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError struct {
			Message string `json:"message"`
		}
		json.Unmarshal(body, &apiError)
		return &APIError{Provider: "rapidapi", StatusCode: resp.StatusCode, Message: apiError.Message}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode rapidapi response: %w", err)
	}
	return nil
}
