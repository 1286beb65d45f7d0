package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

type fakeEventStore struct {
	mu     sync.RWMutex
	seq    int64
	events []entity.LearningEvent
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{}
}

func (s *fakeEventStore) Append(ctx context.Context, event *entity.LearningEvent) (*entity.LearningEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	copy := *event
	copy.ID = s.seq
	s.events = append(s.events, copy)
	stored := copy
	return &stored, nil
}

func (s *fakeEventStore) RecentByUser(ctx context.Context, userID int64, since time.Time) ([]entity.LearningEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []entity.LearningEvent
	for _, e := range s.events {
		if e.UserID == userID && !e.RecordedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *fakeEventStore) List(ctx context.Context, query *repository.ListEventQuery) ([]entity.LearningEvent, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []entity.LearningEvent
	for _, e := range s.events {
		if e.UserID == query.UserID {
			filtered = append(filtered, e)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RecordedAt.After(filtered[j].RecordedAt)
	})

	total := int64(len(filtered))
	start := int(query.Offset())
	if start >= len(filtered) {
		return []entity.LearningEvent{}, total, nil
	}
	if start < 0 {
		start = 0
	}
	end := start + int(query.PageSize)
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (s *fakeEventStore) CountAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.events)), nil
}

type fakeProfileStore struct {
	mu       sync.RWMutex
	profiles map[int64]*entity.UserLearningProfile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[int64]*entity.UserLearningProfile)}
}

func (s *fakeProfileStore) Get(ctx context.Context, userID int64) (*entity.UserLearningProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, entity.ErrProfileNotFound
	}
	return profile.Clone(), nil
}

func (s *fakeProfileStore) Put(ctx context.Context, profile *entity.UserLearningProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile.Clone()
	return nil
}

func (s *fakeProfileStore) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.profiles)), nil
}

func (s *fakeProfileStore) CountPatterns(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, profile := range s.profiles {
		total += int64(len(profile.Patterns))
	}
	return total, nil
}

type fakeRetriever struct {
	related []string
}

func (r *fakeRetriever) RelatedConcepts(ctx context.Context, concept string, known []string, limit int) ([]string, error) {
	if limit < len(r.related) {
		return r.related[:limit], nil
	}
	return r.related, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEngine(events repository.EventStore, profiles repository.ProfileStore) (LearningEngine, *learningEngine) {
	uc := NewLearningEngine(events, profiles, &fakeRetriever{}, DefaultEngineParams(), testLogger())
	impl := uc.(*learningEngine)
	impl.rng = func() float64 { return 0 }
	return uc, impl
}
