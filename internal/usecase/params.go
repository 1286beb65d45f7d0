package usecase

import "time"

// EngineParams tunes the statistical behavior of the learning engine. Zero
// values are replaced by defaults, so partially specified configs stay safe.
type EngineParams struct {
	// HistoryCap bounds the per-user event history; the oldest events are
	// evicted first once the cap is reached.
	HistoryCap int

	// ProfileWindow bounds how far back profile and pattern computation
	// looks, regardless of how many events are retained.
	ProfileWindow time.Duration

	// ConfidenceThreshold gates which detected patterns are retained.
	ConfidenceThreshold float64

	// MinDataPoints is the minimum number of events backing a pattern.
	MinDataPoints int

	// MaxRecommendations caps the recommendation list per request.
	MaxRecommendations int

	// StaleConceptAge marks a concept as due for review when it has not
	// been practiced within this duration.
	StaleConceptAge time.Duration

	// RecentEventCount is the window of latest events used for the
	// difficulty adjustment heuristic.
	RecentEventCount int
}

// DefaultEngineParams returns production defaults.
func DefaultEngineParams() EngineParams {
	return EngineParams{
		HistoryCap:          1000,
		ProfileWindow:       30 * 24 * time.Hour,
		ConfidenceThreshold: 0.7,
		MinDataPoints:       10,
		MaxRecommendations:  3,
		StaleConceptAge:     3 * 24 * time.Hour,
		RecentEventCount:    5,
	}
}

func (p EngineParams) withDefaults() EngineParams {
	def := DefaultEngineParams()
	if p.HistoryCap <= 0 {
		p.HistoryCap = def.HistoryCap
	}
	if p.ProfileWindow <= 0 {
		p.ProfileWindow = def.ProfileWindow
	}
	if p.ConfidenceThreshold <= 0 {
		p.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if p.MinDataPoints <= 0 {
		p.MinDataPoints = def.MinDataPoints
	}
	if p.MaxRecommendations <= 0 {
		p.MaxRecommendations = def.MaxRecommendations
	}
	if p.StaleConceptAge <= 0 {
		p.StaleConceptAge = def.StaleConceptAge
	}
	if p.RecentEventCount <= 0 {
		p.RecentEventCount = def.RecentEventCount
	}
	return p
}
