package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// detectPatterns runs every detector over the event window and keeps only
// patterns whose confidence clears the threshold with enough backing data.
// Each run replaces the previous pattern set wholesale.
func detectPatterns(events []entity.LearningEvent, now time.Time, params EngineParams) []entity.LearningPattern {
	candidates := []*entity.LearningPattern{
		detectOptimalTime(events, now),
		detectDifficultyPreference(events, now),
		detectConceptAffinity(events, now),
	}

	var patterns []entity.LearningPattern
	for _, p := range candidates {
		if p == nil {
			continue
		}
		if p.Confidence < params.ConfidenceThreshold || p.DataPoints < params.MinDataPoints {
			continue
		}
		patterns = append(patterns, *p)
	}
	return patterns
}

// applyPatterns lets confident patterns override the coarse preferences the
// profile builder derived from raw averages.
func applyPatterns(profile *entity.UserLearningProfile) {
	if p := profile.PatternOfType(entity.PatternOptimalTime); p != nil && len(p.OptimalHours) > 0 {
		profile.BestLearningHours = append([]int(nil), p.OptimalHours...)
	}
	if p := profile.PatternOfType(entity.PatternDifficultyPreference); p != nil {
		profile.OptimalDifficulty = p.PreferredDifficulty
	}
	if p := profile.PatternOfType(entity.PatternLearningStyle); p != nil && p.Style != "" {
		profile.LearningStyle = p.Style
	}
}

// detectOptimalTime looks for hours of day where outcomes are reliably
// better than the user's norm. It needs at least three well-sampled hours;
// confidence grows with hour coverage and shrinks with noisy means.
func detectOptimalTime(events []entity.LearningEvent, now time.Time) *entity.LearningPattern {
	buckets := make(map[int]*scoreBucket)
	for _, e := range events {
		hour := int(e.HourOfDay)
		b := buckets[hour]
		if b == nil {
			b = &scoreBucket{}
			buckets[hour] = b
		}
		b.add(e.SuccessRate * e.Comprehension * e.Satisfaction)
	}

	type hourMean struct {
		hour    int
		mean    float64
		samples int
	}
	var qualified []hourMean
	for hour, b := range buckets {
		if b.samples < 3 {
			continue
		}
		qualified = append(qualified, hourMean{hour: hour, mean: b.average(), samples: b.samples})
	}
	if len(qualified) < 3 {
		return nil
	}

	var overall float64
	var dataPoints int
	for _, hm := range qualified {
		overall += hm.mean
		dataPoints += hm.samples
	}
	overall /= float64(len(qualified))

	var variance float64
	for _, hm := range qualified {
		variance += (hm.mean - overall) * (hm.mean - overall)
	}
	variance /= float64(len(qualified))

	var optimal []int
	for _, hm := range qualified {
		if hm.mean > overall+variance {
			optimal = append(optimal, hm.hour)
		}
	}
	sort.Ints(optimal)

	return &entity.LearningPattern{
		Type:         entity.PatternOptimalTime,
		Confidence:   math.Max(0, 1-variance) * math.Min(1, float64(len(qualified))/10),
		DataPoints:   dataPoints,
		UpdatedAt:    now,
		OptimalHours: optimal,
	}
}

// detectDifficultyPreference finds the difficulty level with the best
// outcomes among levels tried at least three times.
func detectDifficultyPreference(events []entity.LearningEvent, now time.Time) *entity.LearningPattern {
	buckets := make(map[int32]*scoreBucket)
	for _, e := range events {
		level := int32(math.Round(e.DifficultyRating))
		b := buckets[level]
		if b == nil {
			b = &scoreBucket{}
			buckets[level] = b
		}
		b.add(e.SuccessRate * e.Satisfaction)
	}

	var best int32
	bestScore := -1.0
	bestSamples := 0
	for level, b := range buckets {
		if b.samples < 3 {
			continue
		}
		avg := b.average()
		if avg > bestScore || (avg == bestScore && level < best) {
			best, bestScore, bestSamples = level, avg, b.samples
		}
	}
	if bestScore < 0 {
		return nil
	}

	return &entity.LearningPattern{
		Type:                entity.PatternDifficultyPreference,
		Confidence:          math.Min(1, float64(bestSamples)/10) * bestScore,
		DataPoints:          len(events),
		UpdatedAt:           now,
		PreferredDifficulty: best,
	}
}

// detectConceptAffinity splits revisited concepts into clearly strong and
// clearly weak groups. Confidence is the share of revisited concepts that
// fall into either group.
func detectConceptAffinity(events []entity.LearningEvent, now time.Time) *entity.LearningPattern {
	byConcept := groupByConcept(events)

	var strong, weak []string
	var considered, dataPoints int
	for concept, evs := range byConcept {
		if len(evs) < 2 {
			continue
		}
		considered++
		dataPoints += len(evs)

		var perf float64
		for _, e := range evs {
			perf += e.Comprehension * e.SuccessRate
		}
		perf /= float64(len(evs))

		switch {
		case perf >= 0.8:
			strong = append(strong, concept)
		case perf <= 0.4:
			weak = append(weak, concept)
		}
	}
	if considered == 0 {
		return nil
	}
	sort.Strings(strong)
	sort.Strings(weak)

	return &entity.LearningPattern{
		Type:           entity.PatternConceptAffinity,
		Confidence:     float64(len(strong)+len(weak)) / float64(considered),
		DataPoints:     dataPoints,
		UpdatedAt:      now,
		StrongConcepts: strong,
		WeakConcepts:   weak,
	}
}
