package usecase

import (
	"sort"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// sessionGap is the idle time that splits one session from the next.
const sessionGap = time.Hour

// computeAnalytics derives the activity rollup from the recent event window.
func computeAnalytics(events []entity.LearningEvent, now time.Time) *entity.LearningAnalytics {
	analytics := &entity.LearningAnalytics{}
	if len(events) == 0 {
		return analytics
	}

	ordered := append([]entity.LearningEvent(nil), events...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	analytics.TotalSessions = countSessions(ordered)
	for _, e := range ordered {
		analytics.TotalTime += e.TimeSpent
	}
	if analytics.TotalSessions > 0 {
		analytics.AverageSessionLength = analytics.TotalTime / time.Duration(analytics.TotalSessions)
	}

	mastered, distinct := masteryCounts(ordered)
	analytics.ConceptsMastered = mastered
	if distinct > 0 {
		analytics.OverallProgress = float64(mastered) / float64(distinct)
	}

	analytics.CurrentStreak = currentStreak(ordered, now)
	return analytics
}

// countSessions treats any gap longer than sessionGap as a session boundary.
func countSessions(ordered []entity.LearningEvent) int {
	sessions := 1
	for i := 1; i < len(ordered); i++ {
		if ordered[i].RecordedAt.Sub(ordered[i-1].RecordedAt) > sessionGap {
			sessions++
		}
	}
	return sessions
}

// masteryCounts marks a concept mastered when its most recent observation
// shows high comprehension, so mastery reflects current state rather than a
// past peak.
func masteryCounts(ordered []entity.LearningEvent) (mastered, distinct int) {
	latest := make(map[string]float64)
	for _, e := range ordered {
		if e.Concept == "" {
			continue
		}
		latest[e.Concept] = e.Comprehension
	}
	for _, comp := range latest {
		if comp >= 0.8 {
			mastered++
		}
	}
	return mastered, len(latest)
}

// currentStreak counts consecutive calendar days with activity ending today
// or yesterday. A quiet today does not break a streak still alive from
// yesterday.
func currentStreak(events []entity.LearningEvent, now time.Time) int {
	active := make(map[string]bool)
	for _, e := range events {
		active[e.RecordedAt.Format("2006-01-02")] = true
	}

	day := now
	if !active[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i < 30; i++ {
		if !active[day.Format("2006-01-02")] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
