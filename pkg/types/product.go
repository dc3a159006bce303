package types

import (
	"errors"
	"time"
)

// Validation errors
var (
	ErrEmptyID       = errors.New("id cannot be empty")
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrEmptyRetailer = errors.New("retailer cannot be empty")
	ErrEmptyQuery    = errors.New("query cannot be empty")
	ErrInvalidLimit  = errors.New("limit must be positive")
)

// Product is a candidate item flowing through the recommendation pipeline.
// Search produces the identity fields; the enrichment stages fill in offers,
// rating and sentiment before scoring.
type Product struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Brand       string   `json:"brand,omitempty" mapstructure:"brand"`
	Category    string   `json:"category,omitempty" mapstructure:"category"`
	Description string   `json:"description,omitempty" mapstructure:"description"`
	Features    []string `json:"features,omitempty" mapstructure:"features"`

	// Enrichment fields
	Offers         []Offer  `json:"offers,omitempty" mapstructure:"offers"`
	Rating         float64  `json:"rating,omitempty" mapstructure:"rating"`
	SentimentScore *float64 `json:"sentiment_score,omitempty" mapstructure:"sentiment_score"`
}

// Validate checks if the Product has all required fields set.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// HasFeature reports whether the product lists the given normalized feature.
func (p *Product) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// BestOffer returns the lowest-priced in-stock offer, falling back to the
// lowest-priced offer overall when nothing is in stock. Returns nil when the
// product has no offers.
func (p *Product) BestOffer() *Offer {
	var best *Offer
	for i := range p.Offers {
		o := &p.Offers[i]
		if best == nil {
			best = o
			continue
		}
		if o.InStock != best.InStock {
			if o.InStock {
				best = o
			}
			continue
		}
		if o.Price.Amount < best.Price.Amount {
			best = o
		}
	}
	return best
}

// Offer is a retailer listing for a product.
type Offer struct {
	Retailer     string       `json:"retailer" mapstructure:"retailer"`
	URL          string       `json:"url,omitempty" mapstructure:"url"`
	Price        Money        `json:"price" mapstructure:"price"`
	InStock      bool         `json:"in_stock" mapstructure:"in_stock"`
	PriceHistory []PricePoint `json:"price_history,omitempty" mapstructure:"price_history"`
}

// Validate checks if the Offer has all required fields set.
func (o *Offer) Validate() error {
	if o.Retailer == "" {
		return ErrEmptyRetailer
	}
	return nil
}

// HistoricalAverage returns the mean historical price, or 0 when no history
// is recorded.
func (o *Offer) HistoricalAverage() float64 {
	if len(o.PriceHistory) == 0 {
		return 0
	}
	var sum float64
	for _, pp := range o.PriceHistory {
		sum += pp.Price.Amount
	}
	return sum / float64(len(o.PriceHistory))
}

// Review is a single customer review attached to a product.
type Review struct {
	Author    string    `json:"author,omitempty" mapstructure:"author"`
	Title     string    `json:"title,omitempty" mapstructure:"title"`
	Text      string    `json:"text,omitempty" mapstructure:"text"`
	Rating    float64   `json:"rating" mapstructure:"rating"`
	CreatedAt time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
}
