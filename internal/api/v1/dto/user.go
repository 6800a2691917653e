package dto

import "time"

// UserResponseDTO is returned in API responses for accounts.
type UserResponseDTO struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	University       string    `json:"university"`
	TotalMeals       int       `json:"total_meals"`
	ExpiresOn        string    `json:"expires_on"`
	MealDistribution string    `json:"meal_distribution"`
	WeeklyMeals      int       `json:"weekly_meals"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}
