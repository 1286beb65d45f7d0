// Package mapping converts between the JSON wire types served by the HTTP
// adapter and the domain entities.
package mapping

import (
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// LearningEvent is the wire shape of one learning interaction.
type LearningEvent struct {
	ID               int64      `json:"id,omitempty"`
	UserID           int64      `json:"user_id,omitempty"`
	SessionID        string     `json:"session_id,omitempty"`
	LessonID         string     `json:"lesson_id,omitempty"`
	Concept          string     `json:"concept,omitempty"`
	RecordedAt       *time.Time `json:"recorded_at,omitempty"`
	TimeSpentSeconds int64      `json:"time_spent_seconds,omitempty"`
	Attempts         int32      `json:"attempts,omitempty"`
	SuccessRate      float64    `json:"success_rate"`
	ConfidenceLevel  float64    `json:"confidence_level"`
	DifficultyRating float64    `json:"difficulty_rating"`
	Mood             string     `json:"mood,omitempty"`
	Energy           float64    `json:"energy,omitempty"`
	Focus            float64    `json:"focus,omitempty"`
	Stress           float64    `json:"stress,omitempty"`
	HourOfDay        *int32     `json:"hour_of_day,omitempty"`
	DayOfWeek        *int32     `json:"day_of_week,omitempty"`
	Device           string     `json:"device,omitempty"`
	Completed        bool       `json:"completed"`
	Comprehension    float64    `json:"comprehension"`
	Retention        float64    `json:"retention,omitempty"`
	Satisfaction     float64    `json:"satisfaction,omitempty"`
}

// ListEventsResponse pages through a user's event history.
type ListEventsResponse struct {
	Events []*LearningEvent `json:"events"`
	Total  int64            `json:"total"`
}

// FromEventRequest builds the domain event from a request body. Omitted
// hour/day fields map to -1 so normalization derives them from the
// timestamp.
func FromEventRequest(in *LearningEvent) *entity.LearningEvent {
	out := &entity.LearningEvent{
		SessionID:        in.SessionID,
		LessonID:         in.LessonID,
		Concept:          in.Concept,
		TimeSpent:        time.Duration(in.TimeSpentSeconds) * time.Second,
		Attempts:         in.Attempts,
		SuccessRate:      in.SuccessRate,
		ConfidenceLevel:  in.ConfidenceLevel,
		DifficultyRating: in.DifficultyRating,
		Mood:             in.Mood,
		Energy:           in.Energy,
		Focus:            in.Focus,
		Stress:           in.Stress,
		HourOfDay:        -1,
		DayOfWeek:        -1,
		Device:           entity.ParseDevice(in.Device),
		Completed:        in.Completed,
		Comprehension:    in.Comprehension,
		Retention:        in.Retention,
		Satisfaction:     in.Satisfaction,
	}
	if in.RecordedAt != nil {
		out.RecordedAt = *in.RecordedAt
	}
	if in.HourOfDay != nil {
		out.HourOfDay = *in.HourOfDay
	}
	if in.DayOfWeek != nil {
		out.DayOfWeek = *in.DayOfWeek
	}
	return out
}

// ToEventResponse renders a stored event.
func ToEventResponse(in *entity.LearningEvent) *LearningEvent {
	recordedAt := in.RecordedAt
	hour := in.HourOfDay
	day := in.DayOfWeek
	return &LearningEvent{
		ID:               in.ID,
		UserID:           in.UserID,
		SessionID:        in.SessionID,
		LessonID:         in.LessonID,
		Concept:          in.Concept,
		RecordedAt:       &recordedAt,
		TimeSpentSeconds: int64(in.TimeSpent / time.Second),
		Attempts:         in.Attempts,
		SuccessRate:      in.SuccessRate,
		ConfidenceLevel:  in.ConfidenceLevel,
		DifficultyRating: in.DifficultyRating,
		Mood:             in.Mood,
		Energy:           in.Energy,
		Focus:            in.Focus,
		Stress:           in.Stress,
		HourOfDay:        &hour,
		DayOfWeek:        &day,
		Device:           string(in.Device),
		Completed:        in.Completed,
		Comprehension:    in.Comprehension,
		Retention:        in.Retention,
		Satisfaction:     in.Satisfaction,
	}
}

// ToListEventsResponse renders one page of events.
func ToListEventsResponse(events []entity.LearningEvent, total int64) *ListEventsResponse {
	return &ListEventsResponse{
		Events: lo.Map(events, func(e entity.LearningEvent, _ int) *LearningEvent {
			return ToEventResponse(&e)
		}),
		Total: total,
	}
}
