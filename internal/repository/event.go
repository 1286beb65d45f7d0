package repository

import (
	"context"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// ListEventQuery holds parameters for listing a user's learning events.
type ListEventQuery struct {
	Pagination
	FilterOrder

	UserID int64
}

// EventStore abstracts the append-only, per-user bounded event history so the
// engine stays storage agnostic. Implementations must be safe for concurrent
// use, apply the history cap atomically with insertion, and preserve
// insertion order within a user.
type EventStore interface {
	Append(ctx context.Context, event *entity.LearningEvent) (*entity.LearningEvent, error)
	RecentByUser(ctx context.Context, userID int64, since time.Time) ([]entity.LearningEvent, error)
	List(ctx context.Context, query *ListEventQuery) ([]entity.LearningEvent, int64, error)
	CountAll(ctx context.Context) (int64, error)
}
