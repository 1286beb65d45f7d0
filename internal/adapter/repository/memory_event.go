package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

// MemoryEventStore keeps per-user event histories in memory with FIFO
// eviction once the cap is reached. It backs single-process deployments and
// tests.
type MemoryEventStore struct {
	mu     sync.RWMutex
	cap    int
	seq    int64
	byUser map[int64][]entity.LearningEvent
}

var _ repository.EventStore = (*MemoryEventStore)(nil)

func NewMemoryEventStore(historyCap int) *MemoryEventStore {
	if historyCap <= 0 {
		historyCap = 1000
	}
	return &MemoryEventStore{
		cap:    historyCap,
		byUser: make(map[int64][]entity.LearningEvent),
	}
}

func (s *MemoryEventStore) Append(ctx context.Context, event *entity.LearningEvent) (*entity.LearningEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	copy := *event
	copy.ID = s.seq

	history := append(s.byUser[event.UserID], copy)
	if len(history) > s.cap {
		// Shift into a fresh slice so evicted entries are released.
		history = append([]entity.LearningEvent(nil), history[len(history)-s.cap:]...)
	}
	s.byUser[event.UserID] = history

	stored := copy
	return &stored, nil
}

func (s *MemoryEventStore) RecentByUser(ctx context.Context, userID int64, since time.Time) ([]entity.LearningEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []entity.LearningEvent
	for _, e := range s.byUser[userID] {
		if !e.RecordedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *MemoryEventStore) List(ctx context.Context, query *repository.ListEventQuery) ([]entity.LearningEvent, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	params, err := bindListEventQuery(query)
	if err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	var filtered []entity.LearningEvent
	for _, e := range s.byUser[query.UserID] {
		if params.matches(&e) {
			filtered = append(filtered, e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		less, equal := eventLess(&filtered[i], &filtered[j], params.PrimaryKey, params.PrimaryDesc)
		if !equal {
			return less
		}
		less, _ = eventLess(&filtered[i], &filtered[j], params.SecondaryKey, params.SecondaryDesc)
		return less
	})

	total := int64(len(filtered))
	start := int(query.Offset())
	if start < 0 {
		start = 0
	}
	if start >= len(filtered) {
		return []entity.LearningEvent{}, total, nil
	}
	end := start + int(query.PageSize)
	if end > len(filtered) {
		end = len(filtered)
	}
	return append([]entity.LearningEvent(nil), filtered[start:end]...), total, nil
}

func (s *MemoryEventStore) CountAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, history := range s.byUser {
		total += int64(len(history))
	}
	return total, nil
}
