package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository is the audit trail. Callers treat writes as
// best-effort and swallow failures.
type ActivityRepository interface {
	Record(ctx context.Context, userID *int64, action, details string) error
	ListRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

type activityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepo{pool: pool}
}

func (r *activityRepo) Record(ctx context.Context, userID *int64, action, details string) error {
	const q = `INSERT INTO activities (user_id, action, details) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, q, userID, action, details); err != nil {
		return fmt.Errorf("recording activity %q: %w", action, err)
	}
	return nil
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	q := fmt.Sprintf(`
		SELECT id, user_id, action, details, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT %d
	`, limit)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}
	return activities, nil
}
