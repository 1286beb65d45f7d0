package mapping

import (
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/learnpulse/internal/entity"
)

type ConceptStrength struct {
	Concept     string  `json:"concept"`
	Proficiency float64 `json:"proficiency"`
	Confidence  float64 `json:"confidence"`
	SampleCount int     `json:"sample_count"`
}

type ImprovementArea struct {
	Concept           string  `json:"concept"`
	Difficulty        float64 `json:"difficulty"`
	Priority          float64 `json:"priority"`
	AverageAttempts   float64 `json:"average_attempts"`
	SuggestedApproach string  `json:"suggested_approach"`
}

type LearningPattern struct {
	Type                string    `json:"type"`
	Confidence          float64   `json:"confidence"`
	DataPoints          int       `json:"data_points"`
	UpdatedAt           time.Time `json:"updated_at"`
	OptimalHours        []int     `json:"optimal_hours,omitempty"`
	PreferredDifficulty int32     `json:"preferred_difficulty,omitempty"`
	StrongConcepts      []string  `json:"strong_concepts,omitempty"`
	WeakConcepts        []string  `json:"weak_concepts,omitempty"`
	Style               string    `json:"style,omitempty"`
}

type UserLearningProfile struct {
	UserID                  int64             `json:"user_id"`
	OverallProgress         float64           `json:"overall_progress"`
	AveragePerformance      float64           `json:"average_performance"`
	LearningVelocity        float64           `json:"learning_velocity"`
	RetentionRate           float64           `json:"retention_rate"`
	OptimalDifficulty       int32             `json:"optimal_difficulty"`
	PreferredSessionMinutes int32             `json:"preferred_session_minutes"`
	BestLearningHours       []int             `json:"best_learning_hours,omitempty"`
	LearningStyle           string            `json:"learning_style"`
	StrongAreas             []ConceptStrength `json:"strong_areas,omitempty"`
	ImprovementAreas        []ImprovementArea `json:"improvement_areas,omitempty"`
	Patterns                []LearningPattern `json:"patterns,omitempty"`
	EventCount              int               `json:"event_count"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

func ToPatternResponse(in entity.LearningPattern) LearningPattern {
	return LearningPattern{
		Type:                string(in.Type),
		Confidence:          in.Confidence,
		DataPoints:          in.DataPoints,
		UpdatedAt:           in.UpdatedAt,
		OptimalHours:        in.OptimalHours,
		PreferredDifficulty: in.PreferredDifficulty,
		StrongConcepts:      in.StrongConcepts,
		WeakConcepts:        in.WeakConcepts,
		Style:               in.Style,
	}
}

func ToProfileResponse(in *entity.UserLearningProfile) *UserLearningProfile {
	return &UserLearningProfile{
		UserID:                  in.UserID,
		OverallProgress:         in.OverallProgress,
		AveragePerformance:      in.AveragePerformance,
		LearningVelocity:        in.LearningVelocity,
		RetentionRate:           in.RetentionRate,
		OptimalDifficulty:       in.OptimalDifficulty,
		PreferredSessionMinutes: in.PreferredSessionMinutes,
		BestLearningHours:       in.BestLearningHours,
		LearningStyle:           in.LearningStyle,
		StrongAreas: lo.Map(in.StrongAreas, func(area entity.ConceptStrength, _ int) ConceptStrength {
			return ConceptStrength(area)
		}),
		ImprovementAreas: lo.Map(in.ImprovementAreas, func(area entity.ImprovementArea, _ int) ImprovementArea {
			return ImprovementArea(area)
		}),
		Patterns:   lo.Map(in.Patterns, func(p entity.LearningPattern, _ int) LearningPattern { return ToPatternResponse(p) }),
		EventCount: in.EventCount,
		CreatedAt:  in.CreatedAt,
		UpdatedAt:  in.UpdatedAt,
	}
}
