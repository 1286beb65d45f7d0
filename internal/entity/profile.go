package entity

import "time"

// ConceptStrength captures a concept the user consistently performs well on.
type ConceptStrength struct {
	Concept     string
	Proficiency float64 // average comprehension, [0,1]
	Confidence  float64 // average confidence level, [0,1]
	SampleCount int
}

// ImprovementArea captures a concept the user struggles with, with a
// priority score used to rank remediation.
type ImprovementArea struct {
	Concept           string
	Difficulty        float64 // 1 - average performance, [0,1]
	Priority          float64 // difficulty × min(1, avg attempts / 5)
	AverageAttempts   float64
	SuggestedApproach string // simplify | foundational | practice | review
}

// UserLearningProfile is the per-user statistical profile derived from the
// bounded recent event window. It is rebuilt by the engine and never
// hand-edited.
type UserLearningProfile struct {
	UserID int64

	// Aggregate metrics.
	OverallProgress    float64 // mastered / distinct concepts seen, [0,1]
	AveragePerformance float64 // weighted blend of success/comprehension/confidence/satisfaction
	LearningVelocity   float64 // mastered concepts per hour of study
	RetentionRate      float64 // [0,1]

	// Learned preferences.
	OptimalDifficulty       int32 // [1,10]
	PreferredSessionMinutes int32
	BestLearningHours       []int
	LearningStyle           string

	StrongAreas      []ConceptStrength
	ImprovementAreas []ImprovementArea
	Patterns         []LearningPattern

	EventCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUserLearningProfile seeds a profile with conservative defaults used
// until enough events accumulate.
func NewUserLearningProfile(userID int64, now time.Time) *UserLearningProfile {
	return &UserLearningProfile{
		UserID:                  userID,
		OptimalDifficulty:       5,
		PreferredSessionMinutes: 30,
		LearningStyle:           "balanced",
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// PatternOfType returns the first retained pattern of the given type.
func (p *UserLearningProfile) PatternOfType(t PatternType) *LearningPattern {
	for i := range p.Patterns {
		if p.Patterns[i].Type == t {
			return &p.Patterns[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand out consistent snapshots.
func (p *UserLearningProfile) Clone() *UserLearningProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.BestLearningHours = append([]int(nil), p.BestLearningHours...)
	cp.StrongAreas = append([]ConceptStrength(nil), p.StrongAreas...)
	cp.ImprovementAreas = append([]ImprovementArea(nil), p.ImprovementAreas...)
	if p.Patterns != nil {
		cp.Patterns = make([]LearningPattern, len(p.Patterns))
		for i, pat := range p.Patterns {
			pat.OptimalHours = append([]int(nil), pat.OptimalHours...)
			pat.StrongConcepts = append([]string(nil), pat.StrongConcepts...)
			pat.WeakConcepts = append([]string(nil), pat.WeakConcepts...)
			cp.Patterns[i] = pat
		}
	}
	return &cp
}
