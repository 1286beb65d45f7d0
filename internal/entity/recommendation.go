package entity

// RecommendationType enumerates what a recommendation asks the user to do.
type RecommendationType string

const (
	RecommendationContent    RecommendationType = "content"
	RecommendationDifficulty RecommendationType = "difficulty"
	RecommendationPacing     RecommendationType = "pacing"
	RecommendationReview     RecommendationType = "review"
	RecommendationBreak      RecommendationType = "break"
	RecommendationStyle      RecommendationType = "style"
)

// Priority orders recommendations; higher ranks first.
type Priority int32

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// ProjectedOutcome estimates the expected deltas from following a
// recommendation.
type ProjectedOutcome struct {
	Comprehension  float64
	Retention      float64
	Satisfaction   float64
	TimeEfficiency float64
}

// RecommendedAction is the structured payload a client acts on.
type RecommendedAction struct {
	Concept          string
	DifficultyDelta  int32
	SuggestedMinutes int32
	TargetHour       int
	StaleConcepts    []string
}

// AdaptiveRecommendation is an ephemeral, ranked, explained suggestion for
// the next learning action. It is computed fresh per request and owned by
// the caller once returned.
type AdaptiveRecommendation struct {
	Type        RecommendationType
	Priority    Priority
	Confidence  float64 // [0,1]
	Title       string
	Description string
	Reasoning   string
	Action      RecommendedAction
	Projected   ProjectedOutcome
}
