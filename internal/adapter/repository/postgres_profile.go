package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

// PostgresProfileStore persists profile snapshots as jsonb, one row per
// user. The pattern count is denormalized for cheap system stats.
type PostgresProfileStore struct {
	pool *pgxpool.Pool
}

var _ repository.ProfileStore = (*PostgresProfileStore)(nil)

func NewPostgresProfileStore(pool *pgxpool.Pool) *PostgresProfileStore {
	return &PostgresProfileStore{pool: pool}
}

func (s *PostgresProfileStore) Get(ctx context.Context, userID int64) (*entity.UserLearningProfile, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, "SELECT payload FROM user_profiles WHERE user_id = $1", userID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	var profile entity.UserLearningProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile %d: %w", userID, err)
	}
	return &profile, nil
}

func (s *PostgresProfileStore) Put(ctx context.Context, profile *entity.UserLearningProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, payload, pattern_count, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    pattern_count = EXCLUDED.pattern_count,
		    updated_at = EXCLUDED.updated_at`,
		profile.UserID, payload, len(profile.Patterns), profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM user_profiles").Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (s *PostgresProfileStore) CountPatterns(ctx context.Context) (int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COALESCE(SUM(pattern_count), 0) FROM user_profiles").Scan(&total); err != nil {
		return 0, fmt.Errorf("count patterns: %w", err)
	}
	return total, nil
}
