package model

import "time"

// Meal distribution modes for a user's plan.
const (
	DistributionSemester = "semester"
	DistributionWeekly   = "weekly"
)

// User roles. Admin access is an explicit claim on the identity checked by
// middleware, never inferred from a magic email address.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a marketplace account and its meal plan configuration.
type User struct {
	ID               int64     `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	University       string    `db:"university" json:"university"`
	TotalMeals       int       `db:"total_meals" json:"total_meals"`
	ExpiresOn        time.Time `db:"expires_on" json:"expires_on"`
	MealDistribution string    `db:"meal_distribution" json:"meal_distribution"`
	WeeklyMeals      int       `db:"weekly_meals" json:"weekly_meals"`
	Role             string    `db:"role" json:"role"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user carries the admin role claim.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
