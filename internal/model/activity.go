package model

import "time"

// Activity is a best-effort audit record. Writes are fire-and-forget; a
// failed insert is logged and swallowed, never surfaced to the caller.
type Activity struct {
	ID        int64     `db:"id" json:"id"`
	UserID    *int64    `db:"user_id" json:"user_id"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
