package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// maxReviewChars truncates long review texts before sending them to the
// inference API; the classifier head only reads a few hundred tokens anyway.
const maxReviewChars = 1000

// HuggingFaceAnalyzer scores reviews through a text-classification model on
// the HuggingFace inference API.
type HuggingFaceAnalyzer struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

// NewHuggingFaceAnalyzer creates an analyzer for the configured model.
func NewHuggingFaceAnalyzer(cfg config.SentimentConfig) *HuggingFaceAnalyzer {
	return &HuggingFaceAnalyzer{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// classification is one label/score pair from the inference API. The API
// returns one inner array per input text.
type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Analyze implements Analyzer. All review texts go out in a single batched
// request.
func (a *HuggingFaceAnalyzer) Analyze(ctx context.Context, reviews []types.Review) (float64, error) {
	if len(reviews) == 0 {
		return NeutralScore, nil
	}

	inputs := make([]string, 0, len(reviews))
	for _, review := range reviews {
		text := review.Text
		if review.Title != "" {
			text = review.Title + ". " + text
		}
		if len(text) > maxReviewChars {
			text = text[:maxReviewChars]
		}
		inputs = append(inputs, text)
	}

	results, err := a.classify(ctx, inputs)
	if err != nil {
		return 0, err
	}
	if len(results) != len(reviews) {
		return 0, fmt.Errorf("inference API returned %d results for %d reviews", len(results), len(reviews))
	}

	scores := make([]float64, 0, len(reviews))
	for i, labels := range results {
		scores = append(scores, blendWithRating(positiveProbability(labels), reviews[i].Rating))
	}
	return aggregate(scores), nil
}

func (a *HuggingFaceAnalyzer) classify(ctx context.Context, inputs []string) ([][]classification, error) {
	payload, err := json.Marshal(map[string]interface{}{"inputs": inputs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s", a.baseURL, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError struct {
			Error string `json:"error"`
		}
		json.Unmarshal(body, &apiError)
		return nil, fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, apiError.Error)
	}

	var results [][]classification
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	return results, nil
}

// positiveProbability extracts the positive-class probability from the label
// scores. Unknown label sets fall back to neutral.
func positiveProbability(labels []classification) float64 {
	for _, l := range labels {
		switch strings.ToUpper(l.Label) {
		case "POSITIVE", "LABEL_1", "POS":
			return l.Score
		}
	}
	for _, l := range labels {
		switch strings.ToUpper(l.Label) {
		case "NEGATIVE", "LABEL_0", "NEG":
			return 1 - l.Score
		}
	}
	return NeutralScore
}
