package types

import (
	"fmt"
	"time"
)

// DefaultCurrency is assumed whenever a price arrives without one.
const DefaultCurrency = "USD"

// Money represents a monetary amount in a single currency.
type Money struct {
	Amount   float64 `json:"amount" mapstructure:"amount"`
	Currency string  `json:"currency,omitempty" mapstructure:"currency"`
}

// NewMoney creates a Money value in the default currency.
func NewMoney(amount float64) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

// IsZero reports whether the value carries no amount.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// String formats the value for display, e.g. "$149.99".
func (m Money) String() string {
	switch m.Currency {
	case "", DefaultCurrency:
		return fmt.Sprintf("$%.2f", m.Amount)
	default:
		return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
	}
}

// PricePoint is a single observation in an offer's price history.
type PricePoint struct {
	Price      Money     `json:"price" mapstructure:"price"`
	RecordedAt time.Time `json:"recorded_at" mapstructure:"recorded_at"`
}
