package mapping

import (
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/learnpulse/internal/entity"
)

type ProjectedOutcome struct {
	Comprehension  float64 `json:"comprehension,omitempty"`
	Retention      float64 `json:"retention,omitempty"`
	Satisfaction   float64 `json:"satisfaction,omitempty"`
	TimeEfficiency float64 `json:"time_efficiency,omitempty"`
}

type RecommendedAction struct {
	Concept          string   `json:"concept,omitempty"`
	DifficultyDelta  int32    `json:"difficulty_delta,omitempty"`
	SuggestedMinutes int32    `json:"suggested_minutes,omitempty"`
	TargetHour       int      `json:"target_hour,omitempty"`
	StaleConcepts    []string `json:"stale_concepts,omitempty"`
}

type AdaptiveRecommendation struct {
	Type        string            `json:"type"`
	Priority    string            `json:"priority"`
	Confidence  float64           `json:"confidence"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Reasoning   string            `json:"reasoning"`
	Action      RecommendedAction `json:"action"`
	Projected   ProjectedOutcome  `json:"projected_outcome"`
}

type RecommendationsResponse struct {
	Recommendations []*AdaptiveRecommendation `json:"recommendations"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

func ToRecommendationResponse(in *entity.AdaptiveRecommendation) *AdaptiveRecommendation {
	return &AdaptiveRecommendation{
		Type:        string(in.Type),
		Priority:    in.Priority.String(),
		Confidence:  in.Confidence,
		Title:       in.Title,
		Description: in.Description,
		Reasoning:   in.Reasoning,
		Action:      RecommendedAction(in.Action),
		Projected:   ProjectedOutcome(in.Projected),
	}
}

func ToRecommendationsResponse(recs []*entity.AdaptiveRecommendation, generatedAt time.Time) *RecommendationsResponse {
	return &RecommendationsResponse{
		Recommendations: lo.Map(recs, func(rec *entity.AdaptiveRecommendation, _ int) *AdaptiveRecommendation {
			return ToRecommendationResponse(rec)
		}),
		GeneratedAt: generatedAt,
	}
}
