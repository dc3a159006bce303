package types

// UserQuery is the structured form of a shopper's natural-language request.
type UserQuery struct {
	// Raw is the original query text as typed by the user.
	Raw string `json:"raw" mapstructure:"raw"`
	// Budget is the spending ceiling, if one was stated or parsed.
	Budget *Money `json:"budget,omitempty" mapstructure:"budget"`
	// MustHave lists required normalized feature tokens.
	MustHave []string `json:"must_have,omitempty" mapstructure:"must_have"`
	// NiceToHave lists preferred but optional feature tokens.
	NiceToHave []string `json:"nice_to_have,omitempty" mapstructure:"nice_to_have"`
	// Category constrains search to a product category when known.
	Category string `json:"category,omitempty" mapstructure:"category"`
	// Comparative marks "X vs Y" style queries.
	Comparative bool `json:"comparative,omitempty" mapstructure:"comparative"`
}

// Validate checks if the UserQuery has all required fields set.
func (q *UserQuery) Validate() error {
	if q.Raw == "" {
		return ErrEmptyQuery
	}
	return nil
}

// BudgetAmount returns the budget amount, or 0 when no budget is set.
func (q *UserQuery) BudgetAmount() float64 {
	if q.Budget == nil {
		return 0
	}
	return q.Budget.Amount
}
