package sentiment

import (
	"context"
	"strings"
	"unicode"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// LexiconAnalyzer scores review text offline against small positive and
// negative word lists. Negators ("not", "never") flip the polarity of the
// word that follows them.
type LexiconAnalyzer struct {
	positive map[string]bool
	negative map[string]bool
	negators map[string]bool
}

// NewLexiconAnalyzer builds the offline analyzer with the default word lists.
func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{
		positive: toSet(positiveWords),
		negative: toSet(negativeWords),
		negators: toSet(negatorWords),
	}
}

// Analyze implements Analyzer.
func (a *LexiconAnalyzer) Analyze(ctx context.Context, reviews []types.Review) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return NeutralScore, nil
	}

	scores := make([]float64, 0, len(reviews))
	for _, review := range reviews {
		text := review.Text
		if review.Title != "" {
			text = review.Title + " " + text
		}
		scores = append(scores, blendWithRating(a.scoreText(text), review.Rating))
	}
	return aggregate(scores), nil
}

// scoreText maps a single text onto [0, 1]; texts with no sentiment-bearing
// words land on NeutralScore.
func (a *LexiconAnalyzer) scoreText(text string) float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})

	var pos, neg float64
	negated := false
	for _, tok := range tokens {
		if a.negators[tok] {
			negated = true
			continue
		}
		switch {
		case a.positive[tok]:
			if negated {
				neg++
			} else {
				pos++
			}
		case a.negative[tok]:
			if negated {
				pos++
			} else {
				neg++
			}
		}
		negated = false
	}

	total := pos + neg
	if total == 0 {
		return NeutralScore
	}
	return 0.5 + 0.5*(pos-neg)/total
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var positiveWords = []string{
	"love", "loved", "excellent", "great", "fantastic", "outstanding",
	"amazing", "awesome", "perfect", "best", "premium", "recommend",
	"recommended", "easy", "comfortable", "reliable", "solid", "impressed",
	"exceeded", "happy", "quick", "fast", "good", "worth", "value",
}

var negativeWords = []string{
	"disappointed", "disappointing", "poor", "cheap", "underwhelming",
	"terrible", "awful", "broken", "broke", "stopped", "defective", "slow",
	"bad", "worst", "useless", "flimsy", "refund", "returned", "waste",
	"uncomfortable", "unreliable",
}

var negatorWords = []string{"not", "never", "no", "hardly", "barely", "isn't", "wasn't", "don't", "didn't", "wouldn't"}
