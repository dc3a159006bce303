package queryparse

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantBudget float64
		wantNone   bool
	}{
		{name: "under dollar", raw: "wireless headphones under $200", wantBudget: 200},
		{name: "under no symbol", raw: "laptop under 1500", wantBudget: 1500},
		{name: "below dollars word", raw: "tablet below 500 dollars", wantBudget: 500},
		{name: "less than", raw: "monitor less than $399.99", wantBudget: 399.99},
		{name: "with comma", raw: "gaming laptop under $1,500", wantBudget: 1500},
		{name: "max", raw: "robot vacuum max $300", wantBudget: 300},
		{name: "bare price", raw: "$150 noise cancelling headphones", wantBudget: 150},
		{name: "no budget", raw: "good headphones for travel", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if tt.wantNone {
				if q.Budget != nil {
					t.Errorf("Parse(%q) budget = %v, want nil", tt.raw, q.Budget)
				}
				return
			}
			if q.Budget == nil {
				t.Fatalf("Parse(%q) budget = nil, want %v", tt.raw, tt.wantBudget)
			}
			if q.Budget.Amount != tt.wantBudget {
				t.Errorf("Parse(%q) budget = %v, want %v", tt.raw, q.Budget.Amount, tt.wantBudget)
			}
		})
	}
}

func TestParseEmptyQuery(t *testing.T) {
	if _, err := Parse("   "); err != types.ErrEmptyQuery {
		t.Errorf("Parse(blank) error = %v, want ErrEmptyQuery", err)
	}
}

func TestParseComparative(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"dyson v15 vs samsung jet vacuum", true},
		{"dyson v15 vs. samsung jet", true},
		{"iphone versus pixel", true},
		{"wireless headphones for travel", false},
	}

	for _, tt := range tests {
		q, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.raw, err)
		}
		if q.Comparative != tt.want {
			t.Errorf("Parse(%q).Comparative = %v, want %v", tt.raw, q.Comparative, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"noise cancelling headphones", "audio"},
		{"robot vacuum for pet hair", "home"},
		{"4k monitor for photo editing", "monitors"},
		{"gaming laptop with rtx", "computers"},
		{"something obscure", ""},
	}

	for _, tt := range tests {
		q, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.raw, err)
		}
		if q.Category != tt.want {
			t.Errorf("Parse(%q).Category = %q, want %q", tt.raw, q.Category, tt.want)
		}
	}
}

func TestNormalizeFeatures(t *testing.T) {
	got := NormalizeFeatures([]string{" Noise Cancelling ", "wireless", "noise-cancelling", "", "WIRELESS"})
	want := []string{"noise_cancelling", "wireless"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeFeatures() = %v, want %v", got, want)
	}
}

func TestSplitFeatureList(t *testing.T) {
	got := SplitFeatureList("wireless, Noise Cancelling ,pet")
	want := []string{"wireless", "noise_cancelling", "pet"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitFeatureList() = %v, want %v", got, want)
	}
	if SplitFeatureList("  ") != nil {
		t.Error("SplitFeatureList(blank) should be nil")
	}
}

type failingPlanner struct{}

func (failingPlanner) Plan(context.Context, string) (*types.UserQuery, error) {
	return nil, errors.New("model unavailable")
}

type fixedPlanner struct{ q *types.UserQuery }

func (p fixedPlanner) Plan(context.Context, string) (*types.UserQuery, error) {
	return p.q, nil
}

func TestFallbackPlanner(t *testing.T) {
	ctx := context.Background()

	// Primary failure falls back to the rule parser.
	fb := FallbackPlanner{Primary: failingPlanner{}}
	q, err := fb.Plan(ctx, "laptop under $1500")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if q.Budget == nil || q.Budget.Amount != 1500 {
		t.Errorf("fallback budget = %v, want 1500", q.Budget)
	}

	// Primary success is used as-is.
	budget := types.NewMoney(42)
	fixed := &types.UserQuery{Raw: "anything", Budget: &budget}
	fb = FallbackPlanner{Primary: fixedPlanner{q: fixed}}
	q, err = fb.Plan(ctx, "anything")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if q.Budget.Amount != 42 {
		t.Errorf("primary budget = %v, want 42", q.Budget.Amount)
	}

	// Nil primary behaves like the rule parser.
	fb = FallbackPlanner{}
	q, err = fb.Plan(ctx, "tablet under $500")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if q.Budget == nil || q.Budget.Amount != 500 {
		t.Errorf("rule-parser budget = %v, want 500", q.Budget)
	}
}
