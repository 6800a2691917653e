package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MealPriceRepository interface {
	Upsert(ctx context.Context, mp *model.MealPrice) error
	List(ctx context.Context, university string) ([]model.MealPrice, error)
}

type mealPriceRepo struct {
	pool *pgxpool.Pool
}

func NewMealPriceRepo(pool *pgxpool.Pool) MealPriceRepository {
	return &mealPriceRepo{pool: pool}
}

// Upsert creates or updates the price keyed on (university, meal_type).
func (r *mealPriceRepo) Upsert(ctx context.Context, mp *model.MealPrice) error {
	const q = `
		INSERT INTO meal_prices (university, meal_type, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (university, meal_type) DO UPDATE SET price = EXCLUDED.price
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, q, mp.University, mp.MealType, mp.Price).Scan(&mp.ID, &mp.CreatedAt); err != nil {
		return fmt.Errorf("upserting meal price for %s/%s: %w", mp.University, mp.MealType, err)
	}
	return nil
}

func (r *mealPriceRepo) List(ctx context.Context, university string) ([]model.MealPrice, error) {
	const q = `
		SELECT id, university, meal_type, price, created_at
		FROM meal_prices
		WHERE ($1 = '' OR university = $1)
		ORDER BY university ASC, meal_type ASC
	`
	rows, err := r.pool.Query(ctx, q, university)
	if err != nil {
		return nil, fmt.Errorf("querying meal prices: %w", err)
	}
	defer rows.Close()

	var prices []model.MealPrice
	for rows.Next() {
		var mp model.MealPrice
		if err := rows.Scan(&mp.ID, &mp.University, &mp.MealType, &mp.Price, &mp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning meal price row: %w", err)
		}
		prices = append(prices, mp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meal price rows: %w", err)
	}
	return prices, nil
}
