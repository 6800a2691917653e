package model

import "time"

// UsageAdjustment is one entry of the append-only meal ledger. Negative
// deltas record consumed meals; positive deltas are credits or corrections.
// Entries are never updated or deleted.
type UsageAdjustment struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	MealsUsedDelta int       `db:"meals_used_delta" json:"meals_used_delta"`
	Note           string    `db:"note" json:"note"`
	At             time.Time `db:"at" json:"created_at"`
}
