package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the tables on first boot. The unique index on
// (kind, listing_id) is what makes thread lookup-or-create safe under
// concurrent accepts.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	university TEXT NOT NULL,
	total_meals INT NOT NULL DEFAULT 0,
	expires_on DATE NOT NULL,
	meal_distribution TEXT NOT NULL DEFAULT 'semester',
	weekly_meals INT NOT NULL DEFAULT 0,
	role TEXT NOT NULL DEFAULT 'member',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS listings (
	id BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	seller_id BIGINT NOT NULL REFERENCES users(id),
	price DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	accepted_by_id BIGINT REFERENCES users(id),
	buyer_message TEXT NOT NULL DEFAULT '',
	meals INT,
	location TEXT,
	meal_type TEXT,
	name TEXT,
	category TEXT,
	img_url TEXT,
	baseline DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	listing_id BIGINT NOT NULL,
	seller_id BIGINT NOT NULL REFERENCES users(id),
	buyer_id BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS threads (
	id BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	listing_id BIGINT NOT NULL,
	seller_id BIGINT NOT NULL REFERENCES users(id),
	buyer_id BIGINT NOT NULL REFERENCES users(id),
	open BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (kind, listing_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	thread_id BIGINT NOT NULL REFERENCES threads(id),
	sender_id BIGINT NOT NULL REFERENCES users(id),
	body TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS usage_adjustments (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id),
	meals_used_delta INT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS comments (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users(id),
	university TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS meal_prices (
	id BIGSERIAL PRIMARY KEY,
	university TEXT NOT NULL,
	meal_type TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (university, meal_type)
);

CREATE TABLE IF NOT EXISTS activities (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users(id),
	action TEXT NOT NULL,
	details TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listings_kind_status ON listings (kind, status);
CREATE INDEX IF NOT EXISTS idx_usage_adjustments_user_at ON usage_adjustments (user_id, at);
CREATE INDEX IF NOT EXISTS idx_messages_thread_created ON messages (thread_id, created_at);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
