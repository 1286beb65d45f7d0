package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

// LearningEngine encapsulates business logic for recording learning events
// and serving the statistical views derived from them.
type LearningEngine interface {
	RecordEvent(ctx context.Context, userID int64, event *entity.LearningEvent) (*entity.LearningEvent, error)
	GetProfile(ctx context.Context, userID int64) (*entity.UserLearningProfile, error)
	GenerateRecommendations(ctx context.Context, userID int64) ([]*entity.AdaptiveRecommendation, error)
	ListEvents(ctx context.Context, query *repository.ListEventQuery) ([]entity.LearningEvent, int64, error)
	GetAnalytics(ctx context.Context, userID int64) (*entity.LearningAnalytics, error)
	GetSystemStats(ctx context.Context) (*entity.SystemStats, error)
}

// NewLearningEngine wires the stores with default behaviour.
func NewLearningEngine(
	events repository.EventStore,
	profiles repository.ProfileStore,
	retriever ConceptRetriever,
	params EngineParams,
	logger *logrus.Logger,
) LearningEngine {
	return &learningEngine{
		events:    events,
		profiles:  profiles,
		retriever: retriever,
		params:    params.withDefaults(),
		logger:    logger,
		clock:     time.Now,
		rng:       rand.Float64,
		locks:     make(map[int64]*sync.Mutex),
	}
}

type learningEngine struct {
	events    repository.EventStore
	profiles  repository.ProfileStore
	retriever ConceptRetriever
	params    EngineParams
	logger    *logrus.Logger

	clock func() time.Time
	rng   func() float64

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// lockFor serializes writes per user so concurrent RecordEvent calls for the
// same user never interleave append and profile refresh.
func (e *learningEngine) lockFor(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

func (e *learningEngine) RecordEvent(ctx context.Context, userID int64, event *entity.LearningEvent) (*entity.LearningEvent, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	if event == nil {
		return nil, entity.ErrEventRequired
	}

	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	now := e.clock()
	copy := *event
	copy.UserID = userID
	copy.Normalize(now)

	stored, err := e.events.Append(ctx, &copy)
	if err != nil {
		return nil, err
	}

	// Profile refresh is best effort: the event is already durable, so a
	// failed refresh degrades reads instead of losing writes.
	if err := e.refreshProfile(ctx, userID, now); err != nil {
		e.logger.WithError(err).WithField("user_id", userID).
			Warn("profile refresh failed after event ingestion")
	}

	return stored, nil
}

// refreshProfile rebuilds the profile and its patterns from the recent event
// window. An empty window leaves an existing profile untouched, so back-dated
// events outside the window never erase accumulated state. Callers must hold
// the user's lock.
func (e *learningEngine) refreshProfile(ctx context.Context, userID int64, now time.Time) error {
	events, err := e.events.RecentByUser(ctx, userID, now.Add(-e.params.ProfileWindow))
	if err != nil {
		return err
	}

	existing, err := e.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		if len(events) == 0 {
			return nil
		}
	case errors.Is(err, entity.ErrProfileNotFound):
		existing = nil
	default:
		return err
	}

	profile := buildProfile(userID, events, now)
	if existing != nil {
		profile.CreatedAt = existing.CreatedAt
	}

	if len(events) >= e.params.MinDataPoints {
		profile.Patterns = detectPatterns(events, now, e.params)
		applyPatterns(profile)
	}

	return e.profiles.Put(ctx, profile)
}

func (e *learningEngine) GetProfile(ctx context.Context, userID int64) (*entity.UserLearningProfile, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	profile, err := e.profiles.Get(ctx, userID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (e *learningEngine) GenerateRecommendations(ctx context.Context, userID int64) ([]*entity.AdaptiveRecommendation, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}

	profile, err := e.profiles.Get(ctx, userID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		return []*entity.AdaptiveRecommendation{}, nil
	}
	if err != nil {
		return nil, err
	}

	now := e.clock()
	events, err := e.events.RecentByUser(ctx, userID, now.Add(-e.params.ProfileWindow))
	if err != nil {
		return nil, err
	}

	return e.recommend(ctx, profile, events, now), nil
}

func (e *learningEngine) ListEvents(ctx context.Context, query *repository.ListEventQuery) ([]entity.LearningEvent, int64, error) {
	if query == nil || query.UserID <= 0 {
		return nil, 0, entity.ErrInvalidUserID
	}
	if query.PageSize <= 0 {
		query.PageSize = 50
	}
	if query.PageNo <= 0 {
		query.PageNo = 1
	}
	return e.events.List(ctx, query)
}

func (e *learningEngine) GetAnalytics(ctx context.Context, userID int64) (*entity.LearningAnalytics, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	now := e.clock()
	events, err := e.events.RecentByUser(ctx, userID, now.Add(-e.params.ProfileWindow))
	if err != nil {
		return nil, err
	}
	return computeAnalytics(events, now), nil
}

func (e *learningEngine) GetSystemStats(ctx context.Context) (*entity.SystemStats, error) {
	points, err := e.events.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := e.profiles.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	patterns, err := e.profiles.CountPatterns(ctx)
	if err != nil {
		return nil, err
	}
	return &entity.SystemStats{
		TotalUsers:      users,
		TotalDataPoints: points,
		TotalPatterns:   patterns,
	}, nil
}
