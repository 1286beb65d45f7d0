package repository

import (
	"context"
	"sync"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

// MemoryProfileStore keeps profiles in memory. Snapshots are deep-copied on
// both reads and writes so callers never share state with the store.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[int64]*entity.UserLearningProfile
}

var _ repository.ProfileStore = (*MemoryProfileStore)(nil)

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[int64]*entity.UserLearningProfile)}
}

func (s *MemoryProfileStore) Get(ctx context.Context, userID int64) (*entity.UserLearningProfile, error) {
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

func (s *MemoryProfileStore) Put(ctx context.Context, profile *entity.UserLearningProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.UserID] = profile.Clone()
	return nil
}

func (s *MemoryProfileStore) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.profiles)), nil
}

func (s *MemoryProfileStore) CountPatterns(ctx context.Context) (int64, error) {
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
