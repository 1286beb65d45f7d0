package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
)

func eventAt(ts time.Time, concept string, success, comp float64) entity.LearningEvent {
	e := entity.LearningEvent{
		Concept:       concept,
		RecordedAt:    ts,
		SuccessRate:   success,
		Comprehension: comp,
	}
	e.Normalize(ts)
	return e
}

func TestBuildProfileEmptyWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	profile := buildProfile(1, nil, now)

	if profile.EventCount != 0 {
		t.Errorf("expected zero event count, got %d", profile.EventCount)
	}
	if profile.OptimalDifficulty != 5 {
		t.Errorf("expected default difficulty 5, got %d", profile.OptimalDifficulty)
	}
	if profile.PreferredSessionMinutes != 30 {
		t.Errorf("expected default session length 30, got %d", profile.PreferredSessionMinutes)
	}
	if profile.LearningStyle != "balanced" {
		t.Errorf("expected default style 'balanced', got %q", profile.LearningStyle)
	}
}

func TestBuildProfileAggregates(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var events []entity.LearningEvent
	for i := 0; i < 5; i++ {
		e := entity.LearningEvent{
			Concept:         "algebra",
			RecordedAt:      now.Add(time.Duration(i) * time.Hour),
			TimeSpent:       30 * time.Minute,
			SuccessRate:     0.9,
			Comprehension:   0.85,
			ConfidenceLevel: 0.8,
			Satisfaction:    0.7,
		}
		e.Normalize(e.RecordedAt)
		events = append(events, e)
	}

	profile := buildProfile(1, events, now)

	wantPerf := 0.4*0.9 + 0.3*0.85 + 0.2*0.8 + 0.1*0.7
	if math.Abs(profile.AveragePerformance-wantPerf) > 1e-9 {
		t.Errorf("expected average performance %v, got %v", wantPerf, profile.AveragePerformance)
	}
	if profile.OverallProgress != 1.0 {
		t.Errorf("expected full progress for a mastered concept, got %v", profile.OverallProgress)
	}
	// 1 mastered concept over 2.5 hours of study.
	if math.Abs(profile.LearningVelocity-0.4) > 1e-9 {
		t.Errorf("expected velocity 0.4, got %v", profile.LearningVelocity)
	}
	if len(profile.StrongAreas) != 1 || profile.StrongAreas[0].Concept != "algebra" {
		t.Fatalf("expected algebra as a strong area, got %+v", profile.StrongAreas)
	}
	if profile.StrongAreas[0].SampleCount != 5 {
		t.Errorf("expected sample count 5, got %d", profile.StrongAreas[0].SampleCount)
	}
	if len(profile.ImprovementAreas) != 0 {
		t.Errorf("expected no improvement areas, got %+v", profile.ImprovementAreas)
	}
}

func TestBuildProfileImprovementAreas(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var events []entity.LearningEvent
	for i := 0; i < 4; i++ {
		e := entity.LearningEvent{
			Concept:       "calculus",
			RecordedAt:    now.Add(time.Duration(i) * time.Hour),
			Attempts:      6,
			SuccessRate:   0.3,
			Comprehension: 0.4,
		}
		e.Normalize(e.RecordedAt)
		events = append(events, e)
	}

	profile := buildProfile(1, events, now)

	if len(profile.ImprovementAreas) != 1 {
		t.Fatalf("expected one improvement area, got %+v", profile.ImprovementAreas)
	}
	area := profile.ImprovementAreas[0]
	if area.Concept != "calculus" {
		t.Errorf("expected calculus, got %q", area.Concept)
	}
	if area.SuggestedApproach != "simplify" {
		t.Errorf("expected 'simplify' for heavy retry churn, got %q", area.SuggestedApproach)
	}
	// perf = 0.4 * 0.3 = 0.12, difficulty = 0.88, priority capped by attempts.
	if math.Abs(area.Difficulty-0.88) > 1e-9 {
		t.Errorf("expected difficulty 0.88, got %v", area.Difficulty)
	}
	if math.Abs(area.Priority-0.88) > 1e-9 {
		t.Errorf("expected priority 0.88, got %v", area.Priority)
	}
	if profile.OverallProgress != 0 {
		t.Errorf("expected zero progress, got %v", profile.OverallProgress)
	}
}

func TestMasteryFollowsLatestObservation(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	slipped := []entity.LearningEvent{
		eventAt(base, "algebra", 0.9, 0.9),
		eventAt(base.Add(time.Hour), "algebra", 0.5, 0.5),
	}
	if conceptMastered(slipped) {
		t.Error("expected mastery lost after a weak latest observation")
	}

	recovered := []entity.LearningEvent{
		eventAt(base, "algebra", 0.5, 0.5),
		eventAt(base.Add(time.Hour), "algebra", 0.9, 0.9),
	}
	if !conceptMastered(recovered) {
		t.Error("expected mastery from a strong latest observation")
	}

	// Velocity and progress use the same definition, so a slipped concept
	// contributes to neither.
	events := append([]entity.LearningEvent(nil), slipped...)
	for i := range events {
		events[i].TimeSpent = 30 * time.Minute
	}
	profile := buildProfile(1, events, base.Add(2*time.Hour))
	if profile.OverallProgress != 0 {
		t.Errorf("expected zero progress after slipping, got %v", profile.OverallProgress)
	}
	if profile.LearningVelocity != 0 {
		t.Errorf("expected zero velocity after slipping, got %v", profile.LearningVelocity)
	}
}

func TestRetentionRate(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	byConcept := map[string][]entity.LearningEvent{
		"fractions": {
			eventAt(base, "fractions", 0.8, 0.8),
			eventAt(base.Add(time.Hour), "fractions", 0.8, 0.4),
		},
		"algebra": {
			eventAt(base, "algebra", 0.8, 0.5),
			eventAt(base.Add(time.Hour), "algebra", 0.8, 0.9),
		},
		"seen-once": {
			eventAt(base, "seen-once", 0.8, 0.2),
		},
	}

	// fractions halves (0.5), algebra improves but caps at 1.0.
	got := retentionRate(byConcept)
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("expected retention 0.75, got %v", got)
	}
}

func TestOptimalDifficultyNeedsSamples(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var events []entity.LearningEvent
	add := func(n int, rating, success, comp, satisfaction float64) {
		for i := 0; i < n; i++ {
			e := entity.LearningEvent{
				Concept:          "algebra",
				RecordedAt:       now,
				DifficultyRating: rating,
				SuccessRate:      success,
				Comprehension:    comp,
				Satisfaction:     satisfaction,
			}
			e.Normalize(now)
			events = append(events, e)
		}
	}

	add(2, 8, 1, 1, 1)
	if got := optimalDifficulty(events); got != 5 {
		t.Errorf("expected default 5 with under-sampled buckets, got %d", got)
	}

	add(3, 4, 0.9, 0.9, 0.9)
	add(3, 7, 0.4, 0.4, 0.4)
	if got := optimalDifficulty(events); got != 4 {
		t.Errorf("expected best-scoring level 4, got %d", got)
	}
}

func TestBestLearningHours(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var events []entity.LearningEvent
	add := func(n, hour int, success, comp float64) {
		for i := 0; i < n; i++ {
			e := entity.LearningEvent{
				Concept:       "algebra",
				RecordedAt:    now,
				HourOfDay:     int32(hour),
				SuccessRate:   success,
				Comprehension: comp,
			}
			e.Normalize(now)
			events = append(events, e)
		}
	}
	add(3, 9, 0.9, 0.9)
	add(2, 14, 0.6, 0.6)
	add(2, 20, 0.7, 0.7)
	add(1, 23, 1, 1) // single sample, ignored

	got := bestLearningHours(events)
	want := []int{9, 20, 14}
	if len(got) != len(want) {
		t.Fatalf("expected hours %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected hours %v, got %v", want, got)
		}
	}
}
