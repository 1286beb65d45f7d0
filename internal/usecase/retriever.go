package usecase

import "context"

// ConceptRetriever supplies concepts related to a seed concept, used to
// enrich content recommendations with adjacent material.
type ConceptRetriever interface {
	RelatedConcepts(ctx context.Context, concept string, known []string, limit int) ([]string, error)
}
