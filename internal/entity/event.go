package entity

import "time"

// EventSchemaVersion tags the serialized shape of LearningEvent for archives.
const EventSchemaVersion = 1

// LearningEvent is one immutable learning interaction reported by a caller.
// Bounded numeric fields are clamped, never rejected.
type LearningEvent struct {
	ID        int64
	UserID    int64
	SessionID string
	LessonID  string
	Concept   string

	RecordedAt time.Time

	// Performance fields.
	TimeSpent        time.Duration
	Attempts         int32
	SuccessRate      float64 // [0,1]
	ConfidenceLevel  float64 // [0,1]
	DifficultyRating float64 // [1,10]

	// Learner-state fields.
	Mood   string
	Energy float64 // [0,1]
	Focus  float64 // [0,1]
	Stress float64 // [0,1]

	// Context fields.
	HourOfDay int32 // [0,23]
	DayOfWeek int32 // [0,6], Sunday = 0
	Device    DeviceClass

	// Outcome fields.
	Completed     bool
	Comprehension float64 // [0,1]
	Retention     float64 // [0,1]
	Satisfaction  float64 // [0,1]
}

// Normalize clamps all bounded fields to their documented ranges and fills
// timestamp-derived context. Out-of-range input degrades, it never fails.
func (e *LearningEvent) Normalize(now time.Time) {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = now
	}
	e.Concept = NormalizeConceptToken(e.Concept)

	if e.TimeSpent < 0 {
		e.TimeSpent = 0
	}
	if e.Attempts < 0 {
		e.Attempts = 0
	}
	e.SuccessRate = Clamp01(e.SuccessRate)
	e.ConfidenceLevel = Clamp01(e.ConfidenceLevel)
	e.DifficultyRating = ClampRange(e.DifficultyRating, 1, 10)

	e.Energy = Clamp01(e.Energy)
	e.Focus = Clamp01(e.Focus)
	e.Stress = Clamp01(e.Stress)

	if e.HourOfDay < 0 || e.HourOfDay > 23 {
		e.HourOfDay = int32(e.RecordedAt.Hour())
	}
	if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
		e.DayOfWeek = int32(e.RecordedAt.Weekday())
	}
	e.Device = NormalizeDevice(e.Device)

	e.Comprehension = Clamp01(e.Comprehension)
	e.Retention = Clamp01(e.Retention)
	e.Satisfaction = Clamp01(e.Satisfaction)
}
