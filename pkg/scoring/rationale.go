package scoring

import (
	"fmt"
	"strings"
)

// Rationale renders a short human-readable explanation of a breakdown for
// display next to a recommendation.
func (b Breakdown) Rationale(budget float64) string {
	var parts []string

	switch {
	case len(b.MissingMustHave) > 0:
		parts = append(parts, fmt.Sprintf("missing required features: %s", strings.Join(b.MissingMustHave, ", ")))
	case b.FeatureMatch >= 0.99:
		parts = append(parts, "matches every requested feature")
	case b.FeatureMatch >= 0.75:
		parts = append(parts, "covers the required features")
	}

	if budget > 0 {
		switch {
		case b.BudgetFit >= 0.99:
			parts = append(parts, "comfortably under budget")
		case b.BudgetFit >= 0.55:
			parts = append(parts, "within budget")
		case b.BudgetFit > 0:
			parts = append(parts, "slightly over budget")
		default:
			parts = append(parts, "well over budget")
		}
	}

	switch {
	case b.Sentiment >= 0.8:
		parts = append(parts, "reviewers love it")
	case b.Sentiment >= 0.6:
		parts = append(parts, "well reviewed")
	case b.Sentiment < 0.4:
		parts = append(parts, "mixed reviews")
	}

	if b.Deal >= 0.75 {
		parts = append(parts, "currently priced below its recent average")
	}

	if b.Availability == 0 {
		parts = append(parts, "availability is limited")
	}

	if len(parts) == 0 {
		return fmt.Sprintf("overall score %.2f", b.Composite)
	}
	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:]
}
