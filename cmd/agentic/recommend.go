package agentic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	commerce "github.com/patilgayatri22/agentic-ecommerce"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/logger"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/queryparse"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get ranked product recommendations for a query",
	Long: `Run the full recommendation pipeline for a natural-language shopping query
and print the ranked results with score rationales.

Examples:
  agentic recommend --query "wireless noise cancelling headphones under \$150" --must-have noise-cancelling
  agentic recommend --query "robot vacuum under \$300" --budget 250 --top-k 3
  agentic recommend --demo-all`,
	RunE: runRecommend,
}

var (
	recommendQuery      string
	recommendMustHave   []string
	recommendNiceToHave []string
	recommendBudget     float64
	recommendCategory   string
	recommendTopK       int
	recommendJSON       bool
	recommendDemoAll    bool
	recommendTimeout    time.Duration
)

// demoScenarios are canned queries that exercise the whole pipeline against
// the built-in catalog.
var demoScenarios = []struct {
	query    string
	mustHave []string
}{
	{query: "wireless noise cancelling headphones under $150", mustHave: []string{"noise_cancelling"}},
	{query: "robot vacuum with app control under $300", mustHave: []string{"app_control"}},
	{query: "4k monitor for photo editing under $400", mustHave: []string{"4k"}},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(&recommendQuery, "query", "q", "", "Natural-language shopping query")
	recommendCmd.Flags().StringSliceVar(&recommendMustHave, "must-have", nil, "Required features (comma-separated)")
	recommendCmd.Flags().StringSliceVar(&recommendNiceToHave, "nice-to-have", nil, "Preferred features (comma-separated)")
	recommendCmd.Flags().Float64VarP(&recommendBudget, "budget", "b", 0, "Maximum price in USD (overrides the parsed budget)")
	recommendCmd.Flags().StringVarP(&recommendCategory, "category", "c", "", "Product category (overrides the inferred category)")
	recommendCmd.Flags().IntVar(&recommendTopK, "top-k", 0, "Number of recommendations to return")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the raw result as JSON")
	recommendCmd.Flags().BoolVar(&recommendDemoAll, "demo-all", false, "Run all built-in demo scenarios")
	recommendCmd.Flags().DurationVar(&recommendTimeout, "timeout", 60*time.Second, "Overall request timeout")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if !recommendDemoAll && recommendQuery == "" {
		if len(args) > 0 {
			recommendQuery = strings.Join(args, " ")
		} else {
			return fmt.Errorf("either --query or --demo-all is required")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewDefaultLogger(logger.ParseLevel(cfg.Log.Level))
	client, err := commerce.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "cli")

	if recommendDemoAll {
		for i, scenario := range demoScenarios {
			fmt.Printf("=== Scenario %d: %q ===\n", i+1, scenario.query)
			opts := &commerce.QueryOptions{MustHave: scenario.mustHave, TopK: recommendTopK}
			if err := recommendOnce(ctx, client, scenario.query, opts); err != nil {
				return err
			}
			fmt.Println()
		}
		return nil
	}

	opts := &commerce.QueryOptions{
		MustHave:   queryparse.NormalizeFeatures(recommendMustHave),
		NiceToHave: queryparse.NormalizeFeatures(recommendNiceToHave),
		Budget:     recommendBudget,
		Category:   recommendCategory,
		TopK:       recommendTopK,
	}
	return recommendOnce(ctx, client, recommendQuery, opts)
}

func recommendOnce(ctx context.Context, client *commerce.Client, query string, opts *commerce.QueryOptions) error {
	result, err := client.Recommend(ctx, query, opts)
	if err != nil {
		return err
	}

	if recommendJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

func printResult(result *types.RecommendationResult) {
	if budget := result.Query.Budget; budget != nil {
		fmt.Printf("Budget: %s\n", budget)
	}
	if len(result.Query.MustHave) > 0 {
		fmt.Printf("Required: %s\n", strings.Join(result.Query.MustHave, ", "))
	}

	if len(result.Recommendations) == 0 {
		fmt.Println("No products matched your query.")
		return
	}

	fmt.Printf("Top %d of %d candidates:\n\n", len(result.Recommendations), result.Candidates)
	for i, rec := range result.Recommendations {
		fmt.Printf("%d. %s (%s)  score %.2f\n", i+1, rec.Product.Title, rec.Product.Brand, rec.Score)
		if rec.BestOffer != nil {
			stock := "in stock"
			if !rec.BestOffer.InStock {
				stock = "out of stock"
			}
			fmt.Printf("   %s at %s (%s)\n", rec.BestOffer.Price, rec.BestOffer.Retailer, stock)
		}
		if rec.Rationale != "" {
			fmt.Printf("   %s\n", rec.Rationale)
		}
	}
}
