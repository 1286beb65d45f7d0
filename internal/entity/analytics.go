package entity

import "time"

// LearningAnalytics is a read-only rollup of one user's recent activity.
// A session is a contiguous run of events with no gap exceeding one hour.
type LearningAnalytics struct {
	TotalSessions        int
	TotalTime            time.Duration
	AverageSessionLength time.Duration
	ConceptsMastered     int
	CurrentStreak        int // consecutive calendar days with activity
	OverallProgress      float64
}

// SystemStats is operational introspection over the whole engine.
type SystemStats struct {
	TotalUsers      int64
	TotalDataPoints int64
	TotalPatterns   int64
}
