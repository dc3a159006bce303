/*
Package commerce is an agentic product-recommendation engine for e-commerce
demos. It turns a natural-language shopping query into ranked, explained
product recommendations by chaining small agents: a query planner, a product
search provider, offer and review enrichment, review sentiment analysis, a
five-signal weighted scorer and an MMR diversifier that keeps the top results
from collapsing onto near-identical products.

Basic usage with the deterministic mock catalog:

	cfg, _ := config.Load()
	client, err := commerce.NewFromConfig(cfg, slog.Default())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	result, err := client.Recommend(ctx, "wireless noise cancelling headphones under $150", &commerce.QueryOptions{
		MustHave: []string{"noise_cancelling"},
	})

Live product data requires ICECAT_TOKEN and RAPIDAPI_KEY; review sentiment
upgrades from the offline lexicon to the HuggingFace inference API when
HUGGINGFACE_API_TOKEN is set.
*/
package commerce
