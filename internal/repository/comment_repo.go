package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	List(ctx context.Context, university string, limit int) ([]model.Comment, error)
}

type commentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) CommentRepository {
	return &commentRepo{pool: pool}
}

func (r *commentRepo) Create(ctx context.Context, c *model.Comment) error {
	const q = `
		INSERT INTO comments (user_id, university, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, q, c.UserID, c.University, c.Body).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

func (r *commentRepo) List(ctx context.Context, university string, limit int) ([]model.Comment, error) {
	q := fmt.Sprintf(`
		SELECT id, user_id, university, body, created_at
		FROM comments
		%s
		ORDER BY created_at DESC
		LIMIT %d
	`, "WHERE ($1 = '' OR university = $1)", limit)
	rows, err := r.pool.Query(ctx, q, university)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.University, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}
	return comments, nil
}
