package mapping

import "github.com/eslsoft/learnpulse/internal/entity"

type LearningAnalytics struct {
	TotalSessions              int     `json:"total_sessions"`
	TotalTimeSeconds           int64   `json:"total_time_seconds"`
	AverageSessionLengthSecond int64   `json:"average_session_length_seconds"`
	ConceptsMastered           int     `json:"concepts_mastered"`
	CurrentStreak              int     `json:"current_streak"`
	OverallProgress            float64 `json:"overall_progress"`
}

type SystemStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalDataPoints int64 `json:"total_data_points"`
	TotalPatterns   int64 `json:"total_patterns"`
}

func ToAnalyticsResponse(in *entity.LearningAnalytics) *LearningAnalytics {
	return &LearningAnalytics{
		TotalSessions:              in.TotalSessions,
		TotalTimeSeconds:           int64(in.TotalTime.Seconds()),
		AverageSessionLengthSecond: int64(in.AverageSessionLength.Seconds()),
		ConceptsMastered:           in.ConceptsMastered,
		CurrentStreak:              in.CurrentStreak,
		OverallProgress:            in.OverallProgress,
	}
}

func ToSystemStatsResponse(in *entity.SystemStats) *SystemStats {
	return &SystemStats{
		TotalUsers:      in.TotalUsers,
		TotalDataPoints: in.TotalDataPoints,
		TotalPatterns:   in.TotalPatterns,
	}
}
