package repository

import (
	"fmt"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
	"github.com/eslsoft/learnpulse/pkg/filterexpr"
)

var listEventsSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"concept": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Concept",
				filterexpr.OpIN: "Concepts",
			},
		},
		"session": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "SessionID"},
		},
		"lesson": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "LessonID"},
		},
		"device": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Device"},
		},
		"recorded_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "RecordedAfter",
				filterexpr.OpLTE: "RecordedBefore",
			},
		},
		"success_rate": {
			Kind: filterexpr.KindNumber,
			Ops:  map[filterexpr.Op]string{filterexpr.OpGTE: "MinSuccess"},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "recorded_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		Fields: map[string]string{
			"recorded_at": "recorded_at",
			"concept":     "concept",
			"id":          "id",
		},
	},
}

// listEventParams is the typed destination the filter binder writes into.
// Zero values mean the predicate was not supplied.
type listEventParams struct {
	Concept        string
	Concepts       []string
	SessionID      string
	LessonID       string
	Device         string
	RecordedAfter  time.Time
	RecordedBefore time.Time
	MinSuccess     float64

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

func bindListEventQuery(query *repository.ListEventQuery) (*listEventParams, error) {
	var params listEventParams
	if err := filterexpr.Bind(query, &params, listEventsSchema); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidListQuery, err)
	}
	return &params, nil
}

func (p *listEventParams) matches(e *entity.LearningEvent) bool {
	if p.Concept != "" && e.Concept != p.Concept {
		return false
	}
	if len(p.Concepts) > 0 {
		found := false
		for _, concept := range p.Concepts {
			if e.Concept == concept {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.SessionID != "" && e.SessionID != p.SessionID {
		return false
	}
	if p.LessonID != "" && e.LessonID != p.LessonID {
		return false
	}
	if p.Device != "" && string(e.Device) != p.Device {
		return false
	}
	if !p.RecordedAfter.IsZero() && e.RecordedAt.Before(p.RecordedAfter) {
		return false
	}
	if !p.RecordedBefore.IsZero() && e.RecordedAt.After(p.RecordedBefore) {
		return false
	}
	if p.MinSuccess > 0 && e.SuccessRate < p.MinSuccess {
		return false
	}
	return true
}

// less compares two events on one order key.
func eventLess(a, b *entity.LearningEvent, key string, desc bool) (less, equal bool) {
	var cmp int
	switch key {
	case "concept":
		switch {
		case a.Concept < b.Concept:
			cmp = -1
		case a.Concept > b.Concept:
			cmp = 1
		}
	case "recorded_at":
		switch {
		case a.RecordedAt.Before(b.RecordedAt):
			cmp = -1
		case a.RecordedAt.After(b.RecordedAt):
			cmp = 1
		}
	default: // id
		switch {
		case a.ID < b.ID:
			cmp = -1
		case a.ID > b.ID:
			cmp = 1
		}
	}
	if desc {
		cmp = -cmp
	}
	return cmp < 0, cmp == 0
}
