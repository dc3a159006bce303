package provider

import (
	"context"
	_ "embed"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

// searchLimit caps the number of candidates returned by a mock search.
const searchLimit = 6

// mockRetailers are the retailers the mock offer provider quotes.
var mockRetailers = []string{"ShopSphere", "TechMart", "DealDepot"}

// catalogEntry is the YAML shape of one catalog product.
type catalogEntry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Brand       string   `yaml:"brand"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	BasePrice   float64  `yaml:"base_price"`
	Rating      float64  `yaml:"rating"`
}

type catalogFile struct {
	Products []catalogEntry `yaml:"products"`
}

// MockProvider serves deterministic products, offers and reviews from the
// embedded catalog. The same inputs always produce the same outputs, which
// keeps demos reproducible and tests stable.
type MockProvider struct {
	entries []catalogEntry
	byID    map[string]catalogEntry
}

// NewMockProvider loads the embedded catalog.
func NewMockProvider() (*MockProvider, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("embedded catalog is empty")
	}

	byID := make(map[string]catalogEntry, len(file.Products))
	for _, e := range file.Products {
		byID[e.ID] = e
	}
	return &MockProvider{entries: file.Products, byID: byID}, nil
}

// NewMockSet returns a provider Set backed entirely by the embedded catalog.
func NewMockSet() (*Set, error) {
	mock, err := NewMockProvider()
	if err != nil {
		return nil, err
	}
	return &Set{Search: mock, Offers: mock, Reviews: mock}, nil
}

// Search ranks catalog entries by term overlap with the query and returns the
// top matches.
func (m *MockProvider) Search(ctx context.Context, query *types.UserQuery) ([]types.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == nil || strings.TrimSpace(query.Raw) == "" {
		return nil, types.ErrEmptyQuery
	}

	terms := queryTerms(query)

	type scored struct {
		entry catalogEntry
		score int
		order int
	}
	var matches []scored
	for i, e := range m.entries {
		// A recognized category restricts the candidate pool outright;
		// scoring only ranks within it.
		if query.Category != "" && e.Category != query.Category {
			continue
		}
		s := matchScore(e, terms, query.Category)
		if s > 0 {
			matches = append(matches, scored{entry: e, score: s, order: i})
		}
	}

	// Stable ranking: score desc, catalog order as tiebreak.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].order < matches[j].order
	})

	limit := searchLimit
	if len(matches) < limit {
		limit = len(matches)
	}
	products := make([]types.Product, 0, limit)
	for _, mtc := range matches[:limit] {
		products = append(products, entryToProduct(mtc.entry))
	}
	return products, nil
}

// Offers quotes the configured retailers with a deterministic spread around
// the catalog base price, each with 30 days of price history.
func (m *MockProvider) Offers(ctx context.Context, product *types.Product) ([]types.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if product == nil || product.ID == "" {
		return nil, types.ErrEmptyID
	}

	base := m.basePrice(product)
	offers := make([]types.Offer, 0, len(mockRetailers))
	for _, retailer := range mockRetailers {
		seed := hashSeed(product.ID + "/" + retailer)

		// Spread current prices across roughly -12%..+6% of base. Every
		// third seed lands a discount so deal scoring has signal.
		var factor float64
		switch seed % 3 {
		case 0:
			factor = 0.88 + float64(seed%5)*0.005
		case 1:
			factor = 0.97 + float64(seed%7)*0.01
		default:
			factor = 1.0 + float64(seed%4)*0.015
		}

		offer := types.Offer{
			Retailer:     retailer,
			URL:          fmt.Sprintf("https://%s.example.com/p/%s", strings.ToLower(retailer), product.ID),
			Price:        types.NewMoney(round2(base * factor)),
			InStock:      seed%7 != 0,
			PriceHistory: priceHistory(base, seed),
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// FetchReviews generates a deterministic review set whose rating mix follows
// the catalog rating for the product.
func (m *MockProvider) FetchReviews(ctx context.Context, product *types.Product, limit int) ([]types.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if product == nil || product.ID == "" {
		return nil, types.ErrEmptyID
	}
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	rating := product.Rating
	if entry, ok := m.byID[product.ID]; ok {
		rating = entry.Rating
	}
	if rating == 0 {
		rating = 3.5
	}

	seed := hashSeed(product.ID)
	positive, neutral := reviewMix(rating, limit)

	reviews := make([]types.Review, 0, limit)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < limit; i++ {
		var text string
		var stars float64
		switch {
		case i < positive:
			text = positiveReviews[(int(seed)+i)%len(positiveReviews)]
			stars = 5
		case i < positive+neutral:
			text = neutralReviews[(int(seed)+i)%len(neutralReviews)]
			stars = 3
		default:
			text = negativeReviews[(int(seed)+i)%len(negativeReviews)]
			stars = 2
		}
		reviews = append(reviews, types.Review{
			Author:    fmt.Sprintf("verified-buyer-%d", (int(seed)+i)%1000),
			Text:      text,
			Rating:    stars,
			CreatedAt: base.AddDate(0, 0, -i*3),
		})
	}
	return reviews, nil
}

func (m *MockProvider) basePrice(product *types.Product) float64 {
	if entry, ok := m.byID[product.ID]; ok {
		return entry.BasePrice
	}
	// Unknown products (live search results fed back through the mock in
	// tests) get a price derived from their ID.
	return 50 + float64(hashSeed(product.ID)%450)
}

func entryToProduct(e catalogEntry) types.Product {
	return types.Product{
		ID:          e.ID,
		Title:       e.Title,
		Brand:       e.Brand,
		Category:    e.Category,
		Description: e.Description,
		Features:    append([]string(nil), e.Features...),
		Rating:      e.Rating,
	}
}

// queryTerms collects lowercase match terms from the raw query and the parsed
// feature lists.
func queryTerms(query *types.UserQuery) map[string]bool {
	terms := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(query.Raw)) {
		tok = strings.Trim(tok, ".,!?$")
		if len(tok) > 2 {
			terms[tok] = true
		}
	}
	for _, f := range query.MustHave {
		terms[f] = true
		for _, part := range strings.Split(f, "_") {
			if len(part) > 2 {
				terms[part] = true
			}
		}
	}
	for _, f := range query.NiceToHave {
		terms[f] = true
	}
	return terms
}

func matchScore(e catalogEntry, terms map[string]bool, category string) int {
	score := 0
	if category != "" && e.Category == category {
		score += 3
	}
	haystack := strings.ToLower(e.Title + " " + e.Brand + " " + e.Description)
	for term := range terms {
		if strings.Contains(haystack, strings.ReplaceAll(term, "_", " ")) {
			score += 2
		}
	}
	for _, f := range e.Features {
		if terms[f] {
			score += 2
		}
	}
	return score
}

// priceHistory synthesizes 30 daily observations oscillating around base.
func priceHistory(base float64, seed uint32) []types.PricePoint {
	points := make([]types.PricePoint, 0, 30)
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		wobble := float64((int(seed)+day*31)%11-5) * 0.012
		points = append(points, types.PricePoint{
			Price:      types.NewMoney(round2(base * (1 + wobble))),
			RecordedAt: start.AddDate(0, 0, day),
		})
	}
	return points
}

// reviewMix splits limit into positive/neutral counts based on the average
// star rating; the remainder is negative.
func reviewMix(rating float64, limit int) (positive, neutral int) {
	var posFrac, neuFrac float64
	switch {
	case rating >= 4.5:
		posFrac, neuFrac = 0.7, 0.2
	case rating >= 4.0:
		posFrac, neuFrac = 0.55, 0.3
	default:
		posFrac, neuFrac = 0.4, 0.3
	}
	positive = int(float64(limit) * posFrac)
	neutral = int(float64(limit) * neuFrac)
	if positive+neutral > limit {
		neutral = limit - positive
	}
	return positive, neutral
}

func hashSeed(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

var positiveReviews = []string{
	"Absolutely love it. Works exactly as advertised and feels premium.",
	"Best purchase I've made this year, battery life is excellent.",
	"Great value for the price, would definitely recommend to friends.",
	"Fantastic build quality and super easy to set up.",
	"Exceeded my expectations, the performance is outstanding.",
}

var neutralReviews = []string{
	"Does the job. Nothing special but no complaints either.",
	"Decent product, though the app could be better.",
	"It's fine for the price, just don't expect flagship quality.",
	"Average performance, delivery was quick though.",
}

var negativeReviews = []string{
	"Stopped working after two weeks, very disappointed.",
	"Cheap materials and poor customer support. Would not buy again.",
	"Not worth the money, performance is underwhelming.",
}
