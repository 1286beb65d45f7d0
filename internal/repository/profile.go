package repository

import (
	"context"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// ProfileStore persists the derived learning profile together with its
// detected patterns. Get returns entity.ErrProfileNotFound when the user has
// no profile yet. Put overwrites the previous snapshot wholesale.
type ProfileStore interface {
	Get(ctx context.Context, userID int64) (*entity.UserLearningProfile, error)
	Put(ctx context.Context, profile *entity.UserLearningProfile) error
	CountUsers(ctx context.Context) (int64, error)
	CountPatterns(ctx context.Context) (int64, error)
}
