package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// recommend assembles the ranked recommendation list for one request. The
// list is computed fresh every time and capped at MaxRecommendations.
func (e *learningEngine) recommend(
	ctx context.Context,
	profile *entity.UserLearningProfile,
	events []entity.LearningEvent,
	now time.Time,
) []*entity.AdaptiveRecommendation {
	recs := []*entity.AdaptiveRecommendation{}

	if rec := pacingRecommendation(profile, now); rec != nil {
		recs = append(recs, rec)
	}
	if rec := difficultyRecommendation(events, e.params.RecentEventCount); rec != nil {
		recs = append(recs, rec)
	}
	if rec := e.contentRecommendation(ctx, profile); rec != nil {
		recs = append(recs, rec)
	}
	if rec := reviewRecommendation(events, now, e.params.StaleConceptAge); rec != nil {
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].Confidence > recs[j].Confidence
	})
	if len(recs) > e.params.MaxRecommendations {
		recs = recs[:e.params.MaxRecommendations]
	}
	return recs
}

// pacingRecommendation suggests shifting study into a detected optimal hour
// when the current hour is not one of them.
func pacingRecommendation(profile *entity.UserLearningProfile, now time.Time) *entity.AdaptiveRecommendation {
	pattern := profile.PatternOfType(entity.PatternOptimalTime)
	if pattern == nil || len(pattern.OptimalHours) == 0 {
		return nil
	}

	hour := now.Hour()
	for _, optimal := range pattern.OptimalHours {
		if optimal == hour {
			return nil
		}
	}

	target := nextUpcomingHour(pattern.OptimalHours, hour)
	c := pattern.Confidence
	return &entity.AdaptiveRecommendation{
		Type:       entity.RecommendationPacing,
		Priority:   entity.PriorityMedium,
		Confidence: c,
		Title:      "Study at your peak hours",
		Description: fmt.Sprintf("Your results are strongest around %02d:00. Consider scheduling your next session then.",
			target),
		Reasoning: fmt.Sprintf("Sessions during hours %s consistently outperform your average across %d recorded events.",
			formatHours(pattern.OptimalHours), pattern.DataPoints),
		Action: entity.RecommendedAction{
			TargetHour:       target,
			SuggestedMinutes: profile.PreferredSessionMinutes,
		},
		Projected: entity.ProjectedOutcome{
			Comprehension:  0.3 * c,
			Retention:      0.2 * c,
			Satisfaction:   0.25 * c,
			TimeEfficiency: 0.4 * c,
		},
	}
}

// nextUpcomingHour returns the first optimal hour at or after the current
// hour, wrapping past midnight.
func nextUpcomingHour(hours []int, current int) int {
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)
	for _, h := range sorted {
		if h >= current {
			return h
		}
	}
	return sorted[0]
}

func formatHours(hours []int) string {
	parts := make([]string, 0, len(hours))
	for _, h := range hours {
		parts = append(parts, fmt.Sprintf("%02d:00", h))
	}
	return strings.Join(parts, ", ")
}

// difficultyRecommendation reacts to the trailing event window: sustained
// struggle drops difficulty sharply, sustained excellence nudges it up.
func difficultyRecommendation(events []entity.LearningEvent, window int) *entity.AdaptiveRecommendation {
	if len(events) == 0 {
		return nil
	}
	ordered := append([]entity.LearningEvent(nil), events...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})
	if len(ordered) > window {
		ordered = ordered[len(ordered)-window:]
	}

	var success, confidence float64
	for _, e := range ordered {
		success += e.SuccessRate
		confidence += e.ConfidenceLevel
	}
	n := float64(len(ordered))
	success /= n
	confidence /= n

	var delta int32
	priority := entity.PriorityMedium
	var title, description string
	switch {
	case success < 0.4 && confidence < 0.5:
		delta = -2
		priority = entity.PriorityHigh
		title = "Ease off the difficulty"
		description = "Recent sessions show low success and shaky confidence. Dropping two difficulty levels should rebuild momentum."
	case success > 0.9 && confidence > 0.8:
		delta = 1
		title = "Ready for a bigger challenge"
		description = "You are breezing through the current level. Stepping up one difficulty level keeps progress efficient."
	case success < 0.6:
		delta = -1
		title = "Dial difficulty back a notch"
		description = "Success rates are trending low. One difficulty level down should restore a productive challenge."
	default:
		return nil
	}

	return &entity.AdaptiveRecommendation{
		Type:       entity.RecommendationDifficulty,
		Priority:   priority,
		Confidence: math.Min(1, n/float64(window)),
		Title:      title,
		Description: description,
		Reasoning: fmt.Sprintf("Average success %.0f%% and confidence %.0f%% over the last %d events.",
			success*100, confidence*100, len(ordered)),
		Action: entity.RecommendedAction{DifficultyDelta: delta},
		Projected: entity.ProjectedOutcome{
			Comprehension: 0.15,
			Satisfaction:  0.2,
		},
	}
}

// contentRecommendation targets a weak concept most of the time, with an
// occasional strength-building pick to keep sessions rewarding.
func (e *learningEngine) contentRecommendation(ctx context.Context, profile *entity.UserLearningProfile) *entity.AdaptiveRecommendation {
	pickImprovement := len(profile.ImprovementAreas) > 0 &&
		(len(profile.StrongAreas) == 0 || e.rng() < 0.7)

	if pickImprovement {
		area := profile.ImprovementAreas[0]
		reasoning := fmt.Sprintf("Performance on %q averages %.0f%% with %.1f attempts per exercise; suggested approach: %s.",
			area.Concept, (1-area.Difficulty)*100, area.AverageAttempts, area.SuggestedApproach)
		if related := e.relatedConcepts(ctx, area.Concept, profile); len(related) > 0 {
			reasoning += fmt.Sprintf(" Adjacent material worth pairing: %s.", strings.Join(related, ", "))
		}
		return &entity.AdaptiveRecommendation{
			Type:        entity.RecommendationContent,
			Priority:    entity.PriorityHigh,
			Confidence:  entity.Clamp01(0.5 + area.Priority/2),
			Title:       fmt.Sprintf("Focus on %s", area.Concept),
			Description: fmt.Sprintf("Spend your next session working through %s at a gentler pace.", area.Concept),
			Reasoning:   reasoning,
			Action: entity.RecommendedAction{
				Concept:          area.Concept,
				SuggestedMinutes: profile.PreferredSessionMinutes,
			},
			Projected: entity.ProjectedOutcome{
				Comprehension: 0.25,
				Retention:     0.2,
			},
		}
	}

	if len(profile.StrongAreas) == 0 {
		return nil
	}
	strength := profile.StrongAreas[0]
	reasoning := fmt.Sprintf("Comprehension on %q averages %.0f%% over %d sessions.",
		strength.Concept, strength.Proficiency*100, strength.SampleCount)
	if related := e.relatedConcepts(ctx, strength.Concept, profile); len(related) > 0 {
		reasoning += fmt.Sprintf(" Natural next steps: %s.", strings.Join(related, ", "))
	}
	return &entity.AdaptiveRecommendation{
		Type:        entity.RecommendationContent,
		Priority:    entity.PriorityLow,
		Confidence:  0.6,
		Title:       fmt.Sprintf("Build on %s", strength.Concept),
		Description: fmt.Sprintf("Extend your strength in %s with more advanced material.", strength.Concept),
		Reasoning:   reasoning,
		Action: entity.RecommendedAction{
			Concept:          strength.Concept,
			SuggestedMinutes: profile.PreferredSessionMinutes,
		},
		Projected: entity.ProjectedOutcome{
			Satisfaction:  0.3,
			Comprehension: 0.1,
		},
	}
}

func (e *learningEngine) relatedConcepts(ctx context.Context, concept string, profile *entity.UserLearningProfile) []string {
	if e.retriever == nil {
		return nil
	}
	known := make([]string, 0, len(profile.StrongAreas))
	for _, area := range profile.StrongAreas {
		known = append(known, area.Concept)
	}
	related, err := e.retriever.RelatedConcepts(ctx, concept, known, 3)
	if err != nil {
		e.logger.WithError(err).WithField("concept", concept).
			Debug("related concept lookup failed")
		return nil
	}
	return related
}

// reviewRecommendation surfaces concepts not practiced recently, up to three
// per request.
func reviewRecommendation(events []entity.LearningEvent, now time.Time, staleAge time.Duration) *entity.AdaptiveRecommendation {
	lastSeen := make(map[string]time.Time)
	for _, e := range events {
		if e.Concept == "" {
			continue
		}
		if ts, ok := lastSeen[e.Concept]; !ok || e.RecordedAt.After(ts) {
			lastSeen[e.Concept] = e.RecordedAt
		}
	}

	var stale []string
	for concept, ts := range lastSeen {
		if now.Sub(ts) >= staleAge {
			stale = append(stale, concept)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	sort.Strings(stale)
	if len(stale) > 3 {
		stale = stale[:3]
	}

	return &entity.AdaptiveRecommendation{
		Type:       entity.RecommendationReview,
		Priority:   entity.PriorityMedium,
		Confidence: math.Min(1, float64(len(stale))/3),
		Title:      "Time for a review session",
		Description: fmt.Sprintf("You have not revisited %s recently. A short refresher protects what you already learned.",
			strings.Join(stale, ", ")),
		Reasoning: fmt.Sprintf("%d concept(s) have gone unpracticed for %d days or more.",
			len(stale), int(staleAge.Hours()/24)),
		Action: entity.RecommendedAction{StaleConcepts: stale},
		Projected: entity.ProjectedOutcome{
			Retention: 0.35,
		},
	}
}
