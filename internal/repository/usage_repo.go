package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository is the append-only meal ledger. Entries are immutable;
// there are no update or delete operations.
type UsageRepository interface {
	Append(ctx context.Context, userID int64, delta int, note string) error
	ListForUser(ctx context.Context, userID int64) ([]model.UsageAdjustment, error)
	ListAll(ctx context.Context) ([]model.UsageAdjustment, error)
}

type usageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

func (r *usageRepo) Append(ctx context.Context, userID int64, delta int, note string) error {
	const q = `INSERT INTO usage_adjustments (user_id, meals_used_delta, note) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, q, userID, delta, note); err != nil {
		return fmt.Errorf("appending usage adjustment for user %d: %w", userID, err)
	}
	return nil
}

func (r *usageRepo) ListForUser(ctx context.Context, userID int64) ([]model.UsageAdjustment, error) {
	const q = `
		SELECT id, user_id, meals_used_delta, note, at
		FROM usage_adjustments
		WHERE user_id = $1
		ORDER BY at ASC
	`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying usage adjustments for user %d: %w", userID, err)
	}
	defer rows.Close()

	var adjustments []model.UsageAdjustment
	for rows.Next() {
		var a model.UsageAdjustment
		if err := rows.Scan(&a.ID, &a.UserID, &a.MealsUsedDelta, &a.Note, &a.At); err != nil {
			return nil, fmt.Errorf("scanning usage adjustment row: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage adjustment rows: %w", err)
	}
	return adjustments, nil
}

func (r *usageRepo) ListAll(ctx context.Context) ([]model.UsageAdjustment, error) {
	const q = `
		SELECT id, user_id, meals_used_delta, note, at
		FROM usage_adjustments
		ORDER BY at DESC
	`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying usage adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []model.UsageAdjustment
	for rows.Next() {
		var a model.UsageAdjustment
		if err := rows.Scan(&a.ID, &a.UserID, &a.MealsUsedDelta, &a.Note, &a.At); err != nil {
			return nil, fmt.Errorf("scanning usage adjustment row: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage adjustment rows: %w", err)
	}
	return adjustments, nil
}
