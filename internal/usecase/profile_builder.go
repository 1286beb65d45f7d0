package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// Weighted blend of outcome signals into a single per-event performance
// score. Success dominates, subjective satisfaction matters least.
func eventPerformance(e entity.LearningEvent) float64 {
	return 0.4*e.SuccessRate + 0.3*e.Comprehension + 0.2*e.ConfidenceLevel + 0.1*e.Satisfaction
}

// buildProfile recomputes the full statistical profile from the recent event
// window. It never mutates its input.
func buildProfile(userID int64, events []entity.LearningEvent, now time.Time) *entity.UserLearningProfile {
	profile := entity.NewUserLearningProfile(userID, now)
	profile.EventCount = len(events)
	if len(events) == 0 {
		return profile
	}

	ordered := append([]entity.LearningEvent(nil), events...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	var perf float64
	for _, e := range ordered {
		perf += eventPerformance(e)
	}
	profile.AveragePerformance = perf / float64(len(ordered))

	byConcept := groupByConcept(ordered)
	mastered := masteredCount(byConcept)
	if len(byConcept) > 0 {
		profile.OverallProgress = float64(mastered) / float64(len(byConcept))
	}
	profile.LearningVelocity = learningVelocity(ordered, mastered)
	profile.RetentionRate = retentionRate(byConcept)
	profile.OptimalDifficulty = optimalDifficulty(ordered)
	profile.PreferredSessionMinutes = preferredSessionMinutes(ordered)
	profile.BestLearningHours = bestLearningHours(ordered)
	profile.LearningStyle = learningStyle(profile.PreferredSessionMinutes)
	profile.StrongAreas = strongAreas(byConcept)
	profile.ImprovementAreas = improvementAreas(byConcept)
	return profile
}

// groupByConcept buckets events per concept, preserving chronological order.
// Events without a concept carry no per-concept signal and are skipped.
func groupByConcept(events []entity.LearningEvent) map[string][]entity.LearningEvent {
	byConcept := make(map[string][]entity.LearningEvent)
	for _, e := range events {
		if e.Concept == "" {
			continue
		}
		byConcept[e.Concept] = append(byConcept[e.Concept], e)
	}
	return byConcept
}

// Mastery follows the most recent observation per concept, so a later weak
// result on an old strength removes it from the mastered set.
func conceptMastered(events []entity.LearningEvent) bool {
	if len(events) == 0 {
		return false
	}
	latest := events[0]
	for _, e := range events[1:] {
		if e.RecordedAt.After(latest.RecordedAt) {
			latest = e
		}
	}
	return latest.Comprehension >= 0.8 && latest.SuccessRate >= 0.8
}

func masteredCount(byConcept map[string][]entity.LearningEvent) int {
	var n int
	for _, evs := range byConcept {
		if conceptMastered(evs) {
			n++
		}
	}
	return n
}

// learningVelocity is mastered concepts per hour of study time.
func learningVelocity(events []entity.LearningEvent, mastered int) float64 {
	var total time.Duration
	for _, e := range events {
		total += e.TimeSpent
	}
	hours := total.Hours()
	if hours <= 0 {
		return 0
	}
	return float64(mastered) / hours
}

// retentionRate compares the latest comprehension of each revisited concept
// against its first observation, capped at 1 so improvement never inflates
// the rate.
func retentionRate(byConcept map[string][]entity.LearningEvent) float64 {
	var sum float64
	var n int
	for _, evs := range byConcept {
		if len(evs) < 2 {
			continue
		}
		first := evs[0].Comprehension
		if first <= 0 {
			continue
		}
		last := evs[len(evs)-1].Comprehension
		sum += math.Min(1, last/first)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type scoreBucket struct {
	samples int
	score   float64
}

func (b *scoreBucket) add(score float64) {
	b.samples++
	b.score += score
}

func (b *scoreBucket) average() float64 {
	return b.score / float64(b.samples)
}

// optimalDifficulty picks the difficulty level with the best outcomes among
// levels tried at least three times. Ties resolve toward the easier level.
func optimalDifficulty(events []entity.LearningEvent) int32 {
	buckets := make(map[int32]*scoreBucket)
	for _, e := range events {
		level := int32(math.Round(e.DifficultyRating))
		b := buckets[level]
		if b == nil {
			b = &scoreBucket{}
			buckets[level] = b
		}
		b.add(e.SuccessRate * e.Comprehension * e.Satisfaction)
	}

	best := int32(5)
	bestScore := -1.0
	for level, b := range buckets {
		if b.samples < 3 {
			continue
		}
		avg := b.average()
		if avg > bestScore || (avg == bestScore && level < best) {
			best, bestScore = level, avg
		}
	}
	if bestScore < 0 {
		return 5
	}
	return best
}

// preferredSessionMinutes buckets session lengths into coarse ranges and
// picks the representative length of the best-scoring populated range.
func preferredSessionMinutes(events []entity.LearningEvent) int32 {
	buckets := make(map[int32]*scoreBucket)
	for _, e := range events {
		minutes := int32(e.TimeSpent / time.Minute)
		var representative int32
		switch {
		case minutes <= 15:
			representative = 15
		case minutes <= 30:
			representative = 25
		case minutes <= 60:
			representative = 45
		default:
			representative = 60
		}
		b := buckets[representative]
		if b == nil {
			b = &scoreBucket{}
			buckets[representative] = b
		}
		b.add(e.SuccessRate * e.Satisfaction)
	}

	best := int32(30)
	bestScore := -1.0
	for representative, b := range buckets {
		if b.samples < 3 {
			continue
		}
		avg := b.average()
		if avg > bestScore || (avg == bestScore && representative < best) {
			best, bestScore = representative, avg
		}
	}
	if bestScore < 0 {
		return 30
	}
	return best
}

// bestLearningHours ranks hours of day by outcome quality and keeps the top
// three with at least two observations each.
func bestLearningHours(events []entity.LearningEvent) []int {
	buckets := make(map[int]*scoreBucket)
	for _, e := range events {
		hour := int(e.HourOfDay)
		b := buckets[hour]
		if b == nil {
			b = &scoreBucket{}
			buckets[hour] = b
		}
		b.add(e.SuccessRate * e.Comprehension)
	}

	type hourScore struct {
		hour  int
		score float64
	}
	var ranked []hourScore
	for hour, b := range buckets {
		if b.samples < 2 {
			continue
		}
		ranked = append(ranked, hourScore{hour: hour, score: b.average()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].hour < ranked[j].hour
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	hours := make([]int, 0, len(ranked))
	for _, hs := range ranked {
		hours = append(hours, hs.hour)
	}
	return hours
}

func learningStyle(sessionMinutes int32) string {
	switch {
	case sessionMinutes <= 15:
		return "sprint"
	case sessionMinutes >= 45:
		return "immersive"
	default:
		return "balanced"
	}
}

// strongAreas lists concepts with consistently high comprehension and
// confidence over at least three observations.
func strongAreas(byConcept map[string][]entity.LearningEvent) []entity.ConceptStrength {
	var areas []entity.ConceptStrength
	for concept, evs := range byConcept {
		if len(evs) < 3 {
			continue
		}
		var comp, conf float64
		for _, e := range evs {
			comp += e.Comprehension
			conf += e.ConfidenceLevel
		}
		comp /= float64(len(evs))
		conf /= float64(len(evs))
		if comp < 0.8 || conf < 0.7 {
			continue
		}
		areas = append(areas, entity.ConceptStrength{
			Concept:     concept,
			Proficiency: comp,
			Confidence:  conf,
			SampleCount: len(evs),
		})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Proficiency != areas[j].Proficiency {
			return areas[i].Proficiency > areas[j].Proficiency
		}
		return areas[i].Concept < areas[j].Concept
	})
	if len(areas) > 5 {
		areas = areas[:5]
	}
	return areas
}

// improvementAreas lists concepts the user struggles with, ranked by a
// priority blending poor outcomes and retry churn.
func improvementAreas(byConcept map[string][]entity.LearningEvent) []entity.ImprovementArea {
	var areas []entity.ImprovementArea
	for concept, evs := range byConcept {
		if len(evs) < 2 {
			continue
		}
		var perf, attempts float64
		for _, e := range evs {
			perf += e.Comprehension * e.SuccessRate
			attempts += float64(e.Attempts)
		}
		perf /= float64(len(evs))
		attempts /= float64(len(evs))
		if perf >= 0.6 && attempts <= 3 {
			continue
		}
		difficulty := 1 - perf
		areas = append(areas, entity.ImprovementArea{
			Concept:           concept,
			Difficulty:        difficulty,
			Priority:          difficulty * math.Min(1, attempts/5),
			AverageAttempts:   attempts,
			SuggestedApproach: suggestedApproach(perf, attempts),
		})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Priority != areas[j].Priority {
			return areas[i].Priority > areas[j].Priority
		}
		return areas[i].Concept < areas[j].Concept
	})
	if len(areas) > 5 {
		areas = areas[:5]
	}
	return areas
}

func suggestedApproach(perf, attempts float64) string {
	switch {
	case attempts > 5:
		return "simplify"
	case perf < 0.4:
		return "foundational"
	case perf < 0.6:
		return "practice"
	default:
		return "review"
	}
}
