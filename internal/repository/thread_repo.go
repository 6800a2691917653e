package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrThreadNotFound is returned both when a thread is absent and when the
// requester is not a party to it, so outsiders cannot probe for existence.
var ErrThreadNotFound = errors.New("thread not found")

type ThreadRepository interface {
	GetThread(ctx context.Context, threadID int64) (*model.Thread, error)
	ListThreadsForUser(ctx context.Context, userID int64) ([]model.ThreadSummary, error)
	ListMessages(ctx context.Context, threadID int64) ([]model.Message, error)
	CreateMessage(ctx context.Context, threadID, senderID int64, body string) (*model.Message, error)
	ListAllMessages(ctx context.Context, limit int) ([]model.Message, error)
}

type threadRepo struct {
	pool *pgxpool.Pool
}

func NewThreadRepo(pool *pgxpool.Pool) ThreadRepository {
	return &threadRepo{pool: pool}
}

func (r *threadRepo) GetThread(ctx context.Context, threadID int64) (*model.Thread, error) {
	query := `
		SELECT id, kind, listing_id, seller_id, buyer_id, open, created_at
		FROM threads
		WHERE id = $1
	`
	var t model.Thread
	err := r.pool.QueryRow(ctx, query, threadID).Scan(
		&t.ID, &t.Kind, &t.ListingID, &t.SellerID, &t.BuyerID, &t.Open, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("getting thread %d: %w", threadID, err)
	}
	return &t, nil
}

// ListThreadsForUser returns every thread the user is a party to, newest
// first, annotated with the counterparty email and the latest message body.
func (r *threadRepo) ListThreadsForUser(ctx context.Context, userID int64) ([]model.ThreadSummary, error) {
	query := `
		SELECT t.id, t.kind,
		       other.email,
		       (SELECT m.body FROM messages m WHERE m.thread_id = t.id ORDER BY m.created_at DESC LIMIT 1)
		FROM threads t
		JOIN users other ON other.id = CASE WHEN t.seller_id = $1 THEN t.buyer_id ELSE t.seller_id END
		WHERE t.seller_id = $1 OR t.buyer_id = $1
		ORDER BY t.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying threads for user %d: %w", userID, err)
	}
	defer rows.Close()

	var summaries []model.ThreadSummary
	for rows.Next() {
		var s model.ThreadSummary
		if err := rows.Scan(&s.ID, &s.Kind, &s.OtherParty, &s.LastBody); err != nil {
			return nil, fmt.Errorf("scanning thread row: %w", err)
		}
		// Unread tracking is not implemented; the count is always zero.
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating thread rows: %w", err)
	}
	return summaries, nil
}

func (r *threadRepo) ListMessages(ctx context.Context, threadID int64) ([]model.Message, error) {
	query := `
		SELECT m.id, m.thread_id, m.sender_id, u.email, m.body, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.thread_id = $1
		ORDER BY m.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("querying messages for thread %d: %w", threadID, err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.SenderEmail, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return messages, nil
}

func (r *threadRepo) CreateMessage(ctx context.Context, threadID, senderID int64, body string) (*model.Message, error) {
	query := `
		INSERT INTO messages (thread_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, thread_id, sender_id, body, created_at
	`
	var m model.Message
	err := r.pool.QueryRow(ctx, query, threadID, senderID, body).Scan(
		&m.ID, &m.ThreadID, &m.SenderID, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating message in thread %d: %w", threadID, err)
	}
	return &m, nil
}

func (r *threadRepo) ListAllMessages(ctx context.Context, limit int) ([]model.Message, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.thread_id, m.sender_id, u.email, m.body, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		ORDER BY m.created_at DESC
		LIMIT %d
	`, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying all messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.SenderEmail, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return messages, nil
}
