package model

import "time"

// MealPrice is the campus reference price for one meal type, keyed by
// (university, meal_type).
type MealPrice struct {
	ID         int64     `db:"id" json:"id"`
	University string    `db:"university" json:"university"`
	MealType   string    `db:"meal_type" json:"meal_type"`
	Price      float64   `db:"price" json:"price"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
