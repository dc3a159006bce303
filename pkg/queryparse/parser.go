// Package queryparse turns a shopper's natural-language request into a
// structured UserQuery: budget extraction, feature normalization, category
// hints and comparative-query detection. An optional LLM planner can replace
// the rule parser when an API key is configured; the rules remain the
// fallback.
package queryparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

var (
	// "under $150", "below 200 dollars", "less than $1,500", "max 80"
	budgetPattern = regexp.MustCompile(`(?i)\b(?:under|below|less than|at most|max(?:imum)?|up to|within)\s*\$?\s*([\d,]+(?:\.\d+)?)(?:\s*(?:dollars|usd|bucks))?`)
	// bare "$150" when no qualifier is present
	barePricePattern = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)
	// "dyson v15 vs samsung jet", "x versus y"
	comparativePattern = regexp.MustCompile(`(?i)\bvs\.?\b|\bversus\b`)
)

// categoryKeywords maps query terms to a product category.
var categoryKeywords = map[string]string{
	"headphone":  "audio",
	"headphones": "audio",
	"earbud":     "audio",
	"earbuds":    "audio",
	"speaker":    "audio",
	"soundbar":   "audio",
	"vacuum":     "home",
	"purifier":   "home",
	"humidifier": "home",
	"monitor":    "monitors",
	"monitors":   "monitors",
	"laptop":     "computers",
	"laptops":    "computers",
	"tablet":     "computers",
	"keyboard":   "accessories",
	"mouse":      "accessories",
}

// Parse extracts a structured UserQuery from raw text using the rule parser.
// It never fails on non-empty input; unrecognized text simply yields a query
// with no budget or category.
func Parse(raw string) (*types.UserQuery, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, types.ErrEmptyQuery
	}

	q := &types.UserQuery{
		Raw:         trimmed,
		Comparative: comparativePattern.MatchString(trimmed),
	}

	if amount, ok := extractBudget(trimmed); ok {
		budget := types.NewMoney(amount)
		q.Budget = &budget
	}

	q.Category = inferCategory(trimmed)

	return q, nil
}

// extractBudget pulls a spending ceiling out of the text. Qualified amounts
// ("under $150") win over bare prices ("$150 headphones"), which are treated
// as a ceiling too since shoppers quote the most they want to pay.
func extractBudget(text string) (float64, bool) {
	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	if m := barePricePattern.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	return 0, false
}

func parseAmount(s string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func inferCategory(text string) string {
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:")
		if cat, ok := categoryKeywords[tok]; ok {
			return cat
		}
	}
	return ""
}

// NormalizeFeature canonicalizes a feature token: lowercased, trimmed, with
// spaces and hyphens collapsed to underscores ("Noise Cancelling" ->
// "noise_cancelling").
func NormalizeFeature(feature string) string {
	f := strings.ToLower(strings.TrimSpace(feature))
	f = strings.ReplaceAll(f, "-", " ")
	return strings.Join(strings.Fields(f), "_")
}

// NormalizeFeatures canonicalizes a list of feature tokens, dropping empties
// and duplicates while preserving order.
func NormalizeFeatures(features []string) []string {
	seen := make(map[string]struct{}, len(features))
	out := make([]string, 0, len(features))
	for _, f := range features {
		n := NormalizeFeature(f)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitFeatureList splits a comma-separated CLI feature list and normalizes
// each entry.
func SplitFeatureList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeFeatures(strings.Split(s, ","))
}
