package model

import "time"

// Comment is public campus feedback shown on the home page. UserID is nil
// for anonymous comments.
type Comment struct {
	ID         int64     `db:"id" json:"id"`
	UserID     *int64    `db:"user_id" json:"user_id"`
	University string    `db:"university" json:"university"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
