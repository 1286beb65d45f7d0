// Package retrieval supplies related-concept lookups for enriching
// recommendations.
package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/usecase"
)

// KeywordRetriever ranks catalog concepts by token overlap with the seed
// concept. It is a deliberately simple stand-in for a real content graph.
type KeywordRetriever struct {
	catalog []string
}

var _ usecase.ConceptRetriever = (*KeywordRetriever)(nil)

// NewKeywordRetriever normalizes and dedupes the concept catalog.
func NewKeywordRetriever(catalog []string) *KeywordRetriever {
	seen := make(map[string]struct{}, len(catalog))
	normalized := make([]string, 0, len(catalog))
	for _, concept := range catalog {
		concept = entity.NormalizeConceptToken(concept)
		if concept == "" {
			continue
		}
		if _, dup := seen[concept]; dup {
			continue
		}
		seen[concept] = struct{}{}
		normalized = append(normalized, concept)
	}
	sort.Strings(normalized)
	return &KeywordRetriever{catalog: normalized}
}

func (r *KeywordRetriever) RelatedConcepts(ctx context.Context, concept string, known []string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	seed := tokens(entity.NormalizeConceptToken(concept))
	if len(seed) == 0 {
		return nil, nil
	}
	exclude := make(map[string]struct{}, len(known)+1)
	exclude[entity.NormalizeConceptToken(concept)] = struct{}{}
	for _, k := range known {
		exclude[entity.NormalizeConceptToken(k)] = struct{}{}
	}

	type match struct {
		concept string
		overlap int
	}
	var matches []match
	for _, candidate := range r.catalog {
		if _, skip := exclude[candidate]; skip {
			continue
		}
		overlap := overlapCount(seed, tokens(candidate))
		if overlap > 0 {
			matches = append(matches, match{concept: candidate, overlap: overlap})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].overlap > matches[j].overlap
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	related := make([]string, 0, len(matches))
	for _, m := range matches {
		related = append(related, m.concept)
	}
	return related, nil
}

func tokens(concept string) map[string]struct{} {
	result := make(map[string]struct{})
	for _, token := range strings.FieldsFunc(concept, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.' || r == '/'
	}) {
		if len(token) > 2 {
			result[token] = struct{}{}
		}
	}
	return result
}

func overlapCount(a, b map[string]struct{}) int {
	var n int
	for token := range a {
		if _, ok := b[token]; ok {
			n++
		}
	}
	return n
}
