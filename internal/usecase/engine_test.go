package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

func TestRecordEventClampsOutOfRangeValues(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	fixed := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	got, err := uc.RecordEvent(context.Background(), 7, &entity.LearningEvent{
		Concept:          "  Algebra  ",
		TimeSpent:        -5 * time.Minute,
		Attempts:         -3,
		SuccessRate:      1.4,
		ConfidenceLevel:  -0.2,
		DifficultyRating: 15,
		Comprehension:    1.2,
		HourOfDay:        -1,
		DayOfWeek:        9,
	})
	if err != nil {
		t.Fatalf("RecordEvent returned error: %v", err)
	}
	if got.ID == 0 {
		t.Errorf("expected ID to be set, got %d", got.ID)
	}
	if got.Concept != "algebra" {
		t.Errorf("expected concept to be normalized to 'algebra', got %q", got.Concept)
	}
	if got.SuccessRate != 1.0 {
		t.Errorf("expected success rate clamped to 1.0, got %v", got.SuccessRate)
	}
	if got.ConfidenceLevel != 0 {
		t.Errorf("expected confidence clamped to 0, got %v", got.ConfidenceLevel)
	}
	if got.DifficultyRating != 10 {
		t.Errorf("expected difficulty clamped to 10, got %v", got.DifficultyRating)
	}
	if got.TimeSpent != 0 {
		t.Errorf("expected negative time spent to clamp to 0, got %v", got.TimeSpent)
	}
	if got.Attempts != 0 {
		t.Errorf("expected negative attempts to clamp to 0, got %d", got.Attempts)
	}
	if got.HourOfDay != 14 {
		t.Errorf("expected hour derived from timestamp, got %d", got.HourOfDay)
	}
	if got.DayOfWeek != int32(fixed.Weekday()) {
		t.Errorf("expected weekday derived from timestamp, got %d", got.DayOfWeek)
	}
	if !got.RecordedAt.Equal(fixed) {
		t.Errorf("expected recorded_at to default to %v, got %v", fixed, got.RecordedAt)
	}
}

func TestRecordEventRejectsInvalidInput(t *testing.T) {
	uc, _ := newTestEngine(newFakeEventStore(), newFakeProfileStore())

	if _, err := uc.RecordEvent(context.Background(), 0, &entity.LearningEvent{}); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID for user 0, got %v", err)
	}
	if _, err := uc.RecordEvent(context.Background(), 1, nil); !errors.Is(err, entity.ErrEventRequired) {
		t.Errorf("expected ErrEventRequired for nil event, got %v", err)
	}
}

func TestRecordEventRefreshesProfile(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return first }

	for i := 0; i < 5; i++ {
		_, err := uc.RecordEvent(context.Background(), 3, &entity.LearningEvent{
			Concept:         "algebra",
			TimeSpent:       20 * time.Minute,
			SuccessRate:     0.9,
			Comprehension:   0.85,
			ConfidenceLevel: 0.8,
			Satisfaction:    0.7,
		})
		if err != nil {
			t.Fatalf("RecordEvent %d failed: %v", i, err)
		}
	}

	profile, err := uc.GetProfile(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if profile == nil {
		t.Fatal("expected profile after recording events")
	}
	if profile.EventCount != 5 {
		t.Errorf("expected event count 5, got %d", profile.EventCount)
	}
	if len(profile.Patterns) != 0 {
		t.Errorf("expected no patterns below the data point minimum, got %d", len(profile.Patterns))
	}
	if !profile.CreatedAt.Equal(first) {
		t.Errorf("expected created_at %v, got %v", first, profile.CreatedAt)
	}

	second := first.Add(24 * time.Hour)
	impl.clock = func() time.Time { return second }
	if _, err := uc.RecordEvent(context.Background(), 3, &entity.LearningEvent{Concept: "algebra", SuccessRate: 0.9, Comprehension: 0.9}); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	profile, err = uc.GetProfile(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if !profile.CreatedAt.Equal(first) {
		t.Errorf("expected created_at preserved at %v, got %v", first, profile.CreatedAt)
	}
	if !profile.UpdatedAt.Equal(second) {
		t.Errorf("expected updated_at %v, got %v", second, profile.UpdatedAt)
	}
}

func TestRecordEventOutsideWindowKeepsProfile(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	for i := 0; i < 5; i++ {
		_, err := uc.RecordEvent(context.Background(), 4, &entity.LearningEvent{
			Concept:         "algebra",
			TimeSpent:       20 * time.Minute,
			SuccessRate:     0.9,
			Comprehension:   0.85,
			ConfidenceLevel: 0.8,
			Satisfaction:    0.7,
		})
		if err != nil {
			t.Fatalf("RecordEvent %d failed: %v", i, err)
		}
	}

	before, err := uc.GetProfile(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if before == nil || len(before.StrongAreas) != 1 {
		t.Fatalf("expected a profile with one strong area, got %+v", before)
	}

	// A back-dated event is legal input but falls outside the 30-day window,
	// so the refresh sees zero events and must not rebuild the profile.
	later := fixed.Add(35 * 24 * time.Hour)
	impl.clock = func() time.Time { return later }
	backdated := &entity.LearningEvent{
		Concept:     "algebra",
		RecordedAt:  later.Add(-40 * 24 * time.Hour),
		SuccessRate: 0.5,
	}
	if _, err := uc.RecordEvent(context.Background(), 4, backdated); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	after, err := uc.GetProfile(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if after.EventCount != before.EventCount {
		t.Errorf("expected event count %d preserved, got %d", before.EventCount, after.EventCount)
	}
	if len(after.StrongAreas) != 1 {
		t.Errorf("expected strong areas preserved, got %+v", after.StrongAreas)
	}
	if after.AveragePerformance != before.AveragePerformance {
		t.Errorf("expected average performance %v preserved, got %v",
			before.AveragePerformance, after.AveragePerformance)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	uc, _ := newTestEngine(newFakeEventStore(), newFakeProfileStore())

	profile, err := uc.GetProfile(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile for unknown user, got %+v", profile)
	}
}

func TestGenerateRecommendationsWithoutHistory(t *testing.T) {
	uc, _ := newTestEngine(newFakeEventStore(), newFakeProfileStore())

	recs, err := uc.GenerateRecommendations(context.Background(), 42)
	if err != nil {
		t.Fatalf("GenerateRecommendations returned error: %v", err)
	}
	if recs == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(recs) != 0 {
		t.Errorf("expected no recommendations without history, got %d", len(recs))
	}
}

func TestGenerateRecommendationsForStrugglingUser(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	for i := 0; i < 6; i++ {
		_, err := uc.RecordEvent(context.Background(), 5, &entity.LearningEvent{
			Concept:       "calculus",
			TimeSpent:     20 * time.Minute,
			Attempts:      6,
			SuccessRate:   0.3,
			Comprehension: 0.4,
			Satisfaction:  0.3,
		})
		if err != nil {
			t.Fatalf("RecordEvent %d failed: %v", i, err)
		}
	}

	recs, err := uc.GenerateRecommendations(context.Background(), 5)
	if err != nil {
		t.Fatalf("GenerateRecommendations returned error: %v", err)
	}
	if len(recs) == 0 || len(recs) > 3 {
		t.Fatalf("expected between 1 and 3 recommendations, got %d", len(recs))
	}

	var difficulty, content *entity.AdaptiveRecommendation
	for _, rec := range recs {
		switch rec.Type {
		case entity.RecommendationDifficulty:
			difficulty = rec
		case entity.RecommendationContent:
			content = rec
		}
	}
	if difficulty == nil {
		t.Fatal("expected a difficulty recommendation")
	}
	if difficulty.Action.DifficultyDelta != -2 {
		t.Errorf("expected difficulty delta -2, got %d", difficulty.Action.DifficultyDelta)
	}
	if difficulty.Priority != entity.PriorityHigh {
		t.Errorf("expected high priority, got %v", difficulty.Priority)
	}
	if content == nil {
		t.Fatal("expected a content recommendation")
	}
	if content.Action.Concept != "calculus" {
		t.Errorf("expected content recommendation for calculus, got %q", content.Action.Concept)
	}
}

func TestGenerateRecommendationsDeterministic(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	for i := 0; i < 4; i++ {
		if _, err := uc.RecordEvent(context.Background(), 8, &entity.LearningEvent{
			Concept:       "fractions",
			Attempts:      5,
			SuccessRate:   0.35,
			Comprehension: 0.4,
		}); err != nil {
			t.Fatalf("RecordEvent failed: %v", err)
		}
	}

	first, err := uc.GenerateRecommendations(context.Background(), 8)
	if err != nil {
		t.Fatalf("first call returned error: %v", err)
	}
	second, err := uc.GenerateRecommendations(context.Background(), 8)
	if err != nil {
		t.Fatalf("second call returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type || first[i].Title != second[i].Title {
			t.Errorf("recommendation %d differs between calls: %q vs %q", i, first[i].Title, second[i].Title)
		}
	}
}

func TestGenerateRecommendationsCapped(t *testing.T) {
	events := newFakeEventStore()
	profiles := newFakeProfileStore()
	uc, impl := newTestEngine(events, profiles)
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	ctx := context.Background()
	stale := fixed.Add(-4 * 24 * time.Hour)
	for i := 0; i < 3; i++ {
		if _, err := events.Append(ctx, &entity.LearningEvent{UserID: 9, Concept: "geometry", RecordedAt: stale, SuccessRate: 0.7, Comprehension: 0.7}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if _, err := events.Append(ctx, &entity.LearningEvent{UserID: 9, Concept: "fractions", RecordedAt: fixed.Add(-time.Hour), SuccessRate: 0.3, Comprehension: 0.4}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	profile := entity.NewUserLearningProfile(9, fixed)
	profile.ImprovementAreas = []entity.ImprovementArea{{
		Concept: "fractions", Difficulty: 0.7, Priority: 0.7, AverageAttempts: 4, SuggestedApproach: "practice",
	}}
	profile.Patterns = []entity.LearningPattern{{
		Type: entity.PatternOptimalTime, Confidence: 0.9, DataPoints: 20, OptimalHours: []int{6}, UpdatedAt: fixed,
	}}
	if err := profiles.Put(ctx, profile); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	recs, err := uc.GenerateRecommendations(ctx, 9)
	if err != nil {
		t.Fatalf("GenerateRecommendations returned error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected recommendations capped at 3, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Priority < recs[i].Priority {
			t.Errorf("recommendations out of priority order at %d", i)
		}
	}
}

func TestListEvents(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	for i := 0; i < 4; i++ {
		if _, err := uc.RecordEvent(context.Background(), 2, &entity.LearningEvent{
			Concept:    "algebra",
			RecordedAt: fixed.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("RecordEvent failed: %v", err)
		}
	}

	got, total, err := uc.ListEvents(context.Background(), &repository.ListEventQuery{
		UserID:     2,
		Pagination: repository.Pagination{PageNo: 1, PageSize: 3},
	})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 events on first page, got %d", len(got))
	}

	if _, _, err := uc.ListEvents(context.Background(), nil); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID for nil query, got %v", err)
	}
}

func TestGetSystemStats(t *testing.T) {
	uc, impl := newTestEngine(newFakeEventStore(), newFakeProfileStore())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	impl.clock = func() time.Time { return fixed }

	for _, userID := range []int64{1, 1, 2} {
		if _, err := uc.RecordEvent(context.Background(), userID, &entity.LearningEvent{Concept: "algebra"}); err != nil {
			t.Fatalf("RecordEvent failed: %v", err)
		}
	}

	stats, err := uc.GetSystemStats(context.Background())
	if err != nil {
		t.Fatalf("GetSystemStats returned error: %v", err)
	}
	if stats.TotalDataPoints != 3 {
		t.Errorf("expected 3 data points, got %d", stats.TotalDataPoints)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", stats.TotalUsers)
	}
}
