package queryparse

import (
	"context"
	"encoding/json"
	"fmt"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// Planner maps raw query text to a structured UserQuery.
type Planner interface {
	Plan(ctx context.Context, raw string) (*types.UserQuery, error)
}

// PlannerConfig holds configuration for the LLM planner.
type PlannerConfig struct {
	Model   string
	BaseURL string
}

const plannerSystemPrompt = `You are a shopping query planner. Given a product search query, respond with ONLY a JSON object:
{"budget": <number or null>, "must_have": [<feature tokens>], "nice_to_have": [<feature tokens>], "category": "<category or empty>", "comparative": <bool>}
Feature tokens are lowercase with underscores (e.g. "noise_cancelling"). Budget is the maximum price in USD if stated. Comparative is true for "X vs Y" queries.`

// planResponse is the schema the model is asked to produce.
type planResponse struct {
	Budget      *float64 `json:"budget"`
	MustHave    []string `json:"must_have"`
	NiceToHave  []string `json:"nice_to_have"`
	Category    string   `json:"category"`
	Comparative bool     `json:"comparative"`
}

// OpenAIPlanner implements Planner on top of an OpenAI-compatible chat API.
type OpenAIPlanner struct {
	client *openai.Client
	config PlannerConfig
}

// NewOpenAIPlanner creates a planner. A custom BaseURL enables
// OpenAI-compatible services.
func NewOpenAIPlanner(apiKey string, config PlannerConfig) (*OpenAIPlanner, error) {
	if apiKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("planner requires an API key or a base URL")
	}

	var client *openai.Client
	if config.BaseURL != "" {
		if apiKey == "" {
			apiKey = "dummy-key"
		}
		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = config.BaseURL
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(apiKey)
	}

	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}

	return &OpenAIPlanner{client: client, config: config}, nil
}

// Plan asks the model for a structured interpretation of the query. The raw
// model output is run through jsonrepair before decoding since models
// occasionally emit trailing prose or unbalanced braces.
func (p *OpenAIPlanner) Plan(ctx context.Context, raw string) (*types.UserQuery, error) {
	if raw == "" {
		return nil, types.ErrEmptyQuery
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: plannerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: raw},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("planner chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("planner returned no choices")
	}

	content := resp.Choices[0].Message.Content
	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr == nil {
		content = repaired
	}

	var plan planResponse
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("planner response is not valid JSON: %w", err)
	}

	q := &types.UserQuery{
		Raw:         raw,
		MustHave:    NormalizeFeatures(plan.MustHave),
		NiceToHave:  NormalizeFeatures(plan.NiceToHave),
		Category:    plan.Category,
		Comparative: plan.Comparative,
	}
	if plan.Budget != nil && *plan.Budget > 0 {
		budget := types.NewMoney(*plan.Budget)
		q.Budget = &budget
	}
	return q, nil
}

// RuleParser implements Planner using the regex/keyword rules; it is the
// default and the fallback when the LLM planner fails.
type RuleParser struct{}

// Plan implements Planner.
func (RuleParser) Plan(_ context.Context, raw string) (*types.UserQuery, error) {
	return Parse(raw)
}

// FallbackPlanner tries a primary planner and falls back to the rule parser
// on any error.
type FallbackPlanner struct {
	Primary Planner
}

// Plan implements Planner.
func (f FallbackPlanner) Plan(ctx context.Context, raw string) (*types.UserQuery, error) {
	if f.Primary != nil {
		if q, err := f.Primary.Plan(ctx, raw); err == nil {
			return q, nil
		}
	}
	return Parse(raw)
}
