package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
)

// PostgresEventStore persists events in the learning_events table. Commonly
// filtered attributes live in their own columns; the full event rides along
// as a jsonb payload.
type PostgresEventStore struct {
	pool *pgxpool.Pool
	cap  int
}

var _ repository.EventStore = (*PostgresEventStore)(nil)

func NewPostgresEventStore(pool *pgxpool.Pool, historyCap int) *PostgresEventStore {
	if historyCap <= 0 {
		historyCap = 1000
	}
	return &PostgresEventStore{pool: pool, cap: historyCap}
}

func (s *PostgresEventStore) Append(ctx context.Context, event *entity.LearningEvent) (*entity.LearningEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	copy := *event
	err = tx.QueryRow(ctx, `
		INSERT INTO learning_events (user_id, session_id, lesson_id, concept, device, recorded_at, success_rate, schema_version, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		event.UserID, event.SessionID, event.LessonID, event.Concept, string(event.Device),
		event.RecordedAt, event.SuccessRate, entity.EventSchemaVersion, payload,
	).Scan(&copy.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	// Evict beyond the per-user cap in the same transaction, so readers
	// never observe an over-full history.
	if _, err := tx.Exec(ctx, `
		DELETE FROM learning_events
		WHERE user_id = $1 AND id IN (
			SELECT id FROM learning_events WHERE user_id = $1 ORDER BY id DESC OFFSET $2
		)`, event.UserID, s.cap); err != nil {
		return nil, fmt.Errorf("evict old events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return &copy, nil
}

func (s *PostgresEventStore) RecentByUser(ctx context.Context, userID int64, since time.Time) ([]entity.LearningEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, payload FROM learning_events
		WHERE user_id = $1 AND recorded_at >= $2
		ORDER BY id`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	var result []entity.LearningEvent
	for rows.Next() {
		var id int64
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var event entity.LearningEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("unmarshal event %d: %w", id, err)
		}
		event.ID = id
		result = append(result, event)
	}
	return result, rows.Err()
}

func (s *PostgresEventStore) List(ctx context.Context, query *repository.ListEventQuery) ([]entity.LearningEvent, int64, error) {
	params, err := bindListEventQuery(query)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"user_id = $1"}
	args := []any{query.UserID}
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if params.Concept != "" {
		add("concept = $%d", params.Concept)
	}
	if len(params.Concepts) > 0 {
		add("concept = ANY($%d)", params.Concepts)
	}
	if params.SessionID != "" {
		add("session_id = $%d", params.SessionID)
	}
	if params.LessonID != "" {
		add("lesson_id = $%d", params.LessonID)
	}
	if params.Device != "" {
		add("device = $%d", params.Device)
	}
	if !params.RecordedAfter.IsZero() {
		add("recorded_at >= $%d", params.RecordedAfter)
	}
	if !params.RecordedBefore.IsZero() {
		add("recorded_at <= $%d", params.RecordedBefore)
	}
	if params.MinSuccess > 0 {
		add("success_rate >= $%d", params.MinSuccess)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM learning_events WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	orderBy := fmt.Sprintf("%s %s, %s %s",
		listEventsSchema.Order.Fields[params.PrimaryKey], direction(params.PrimaryDesc),
		listEventsSchema.Order.Fields[params.SecondaryKey], direction(params.SecondaryDesc))

	args = append(args, query.PageSize, query.Offset())
	sql := fmt.Sprintf("SELECT id, payload FROM learning_events WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		cond, orderBy, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	result := []entity.LearningEvent{}
	for rows.Next() {
		var id int64
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		var event entity.LearningEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, 0, fmt.Errorf("unmarshal event %d: %w", id, err)
		}
		event.ID = id
		result = append(result, event)
	}
	return result, total, rows.Err()
}

func (s *PostgresEventStore) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM learning_events").Scan(&total); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func direction(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}
