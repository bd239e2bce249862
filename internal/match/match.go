// Package match provides relevance scoring strategies for skill selection.
// The registry consumes a Scorer without caring which heuristic backs it, so
// a host runtime can inject its own in place of the built-in text matchers.
package match

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum score treated as a selection match.
const DefaultThreshold = 0.2

// Scorer rates how relevant a skill description is to request context text.
// Scores are in [0.0, 1.0]; higher means more relevant.
type Scorer interface {
	// Score returns the relevance of description to the context text.
	Score(description, text string) float64
	// Name identifies the strategy for logging and display.
	Name() string
}

// Func adapts a plain function to the Scorer interface.
type Func struct {
	ScoreFunc func(description, text string) float64
	Strategy  string
}

// Score calls the wrapped function.
func (f Func) Score(description, text string) float64 {
	return f.ScoreFunc(description, text)
}

// Name returns the strategy name.
func (f Func) Name() string {
	if f.Strategy == "" {
		return "func"
	}
	return f.Strategy
}

// KeywordScorer scores by the fraction of context tokens that appear in the
// description. A description containing the whole context text verbatim
// scores 1.0.
type KeywordScorer struct{}

// NewKeywordScorer creates the default keyword-overlap scorer.
func NewKeywordScorer() KeywordScorer {
	return KeywordScorer{}
}

// Name returns "keyword".
func (KeywordScorer) Name() string {
	return "keyword"
}

// Score returns the share of context tokens found in the description.
func (KeywordScorer) Score(description, text string) float64 {
	desc := strings.ToLower(description)
	query := strings.ToLower(strings.TrimSpace(text))

	if query == "" || desc == "" {
		return 0.0
	}
	if strings.Contains(desc, query) {
		return 1.0
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return 0.0
	}

	descSet := tokenSet(tokenize(desc))
	hits := 0
	for _, token := range queryTokens {
		if _, ok := descSet[token]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(queryTokens))
}

// JaccardConfig configures the n-gram similarity scorer.
type JaccardConfig struct {
	// NGramSize is the size of character n-grams. Default: 3 (trigrams).
	NGramSize int
}

// DefaultJaccardConfig returns sensible defaults.
func DefaultJaccardConfig() JaccardConfig {
	return JaccardConfig{NGramSize: 3}
}

// JaccardScorer scores by the Jaccard index of character n-gram sets. It is
// tolerant of word-boundary and inflection differences that defeat the
// keyword scorer.
type JaccardScorer struct {
	config JaccardConfig
}

// NewJaccardScorer creates an n-gram scorer with the given configuration.
func NewJaccardScorer(config JaccardConfig) *JaccardScorer {
	if config.NGramSize <= 0 {
		config.NGramSize = 3
	}
	return &JaccardScorer{config: config}
}

// Name returns "jaccard".
func (*JaccardScorer) Name() string {
	return "jaccard"
}

// Score returns the Jaccard index of the two n-gram sets.
func (s *JaccardScorer) Score(description, text string) float64 {
	desc := strings.ToLower(description)
	query := strings.ToLower(strings.TrimSpace(text))

	if query == "" || desc == "" {
		return 0.0
	}

	return jaccardIndex(
		generateNGrams(desc, s.config.NGramSize),
		generateNGrams(query, s.config.NGramSize),
	)
}

// ForName returns the scorer registered under the given strategy name,
// falling back to the keyword scorer for unknown names.
func ForName(name string) Scorer {
	switch name {
	case "jaccard":
		return NewJaccardScorer(DefaultJaccardConfig())
	default:
		return NewKeywordScorer()
	}
}

// tokenize splits text into lowercase alphanumeric tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenSet builds a set from tokens, dropping empty entries.
func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

// generateNGrams creates a set of character n-grams from a string. Strings
// shorter than n contribute themselves as a single n-gram.
func generateNGrams(s string, n int) map[string]struct{} {
	ngrams := make(map[string]struct{})
	runes := []rune(s)

	if len(runes) < n {
		if len(runes) > 0 {
			ngrams[s] = struct{}{}
		}
		return ngrams
	}

	for i := 0; i <= len(runes)-n; i++ {
		ngrams[string(runes[i:i+n])] = struct{}{}
	}

	return ngrams
}

// jaccardIndex returns |intersection| / |union| of two sets.
func jaccardIndex(set1, set2 map[string]struct{}) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for key := range set1 {
		if _, exists := set2[key]; exists {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}
