package entity

import "time"

// PatternType enumerates the behavioral regularities the engine can detect.
type PatternType string

const (
	PatternOptimalTime          PatternType = "optimal_time"
	PatternDifficultyPreference PatternType = "difficulty_preference"
	PatternLearningStyle        PatternType = "learning_style"
	PatternConceptAffinity      PatternType = "concept_affinity"
)

// LearningPattern is a statistically supported regularity in one user's
// behavior. A pattern is only retained when its confidence clears the
// configured threshold and enough data points back it.
type LearningPattern struct {
	Type       PatternType
	Confidence float64 // [0,1]
	DataPoints int
	UpdatedAt  time.Time

	// Type-specific metadata. Only the fields matching Type are set.
	OptimalHours        []int
	PreferredDifficulty int32
	StrongConcepts      []string
	WeakConcepts        []string
	Style               string
}
