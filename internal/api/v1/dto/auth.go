package dto

// SignupRequestDTO is used for incoming registration requests.
type SignupRequestDTO struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	University       string `json:"university" validate:"required"`
	TotalMeals       int    `json:"total_meals" validate:"gte=0"`
	ExpiresOn        string `json:"expires_on" validate:"required"`
	MealDistribution string `json:"meal_distribution" validate:"required,oneof=semester weekly"`
	WeeklyMeals      int    `json:"weekly_meals" validate:"gte=0"`
	Remember         bool   `json:"remember"`
}

// LoginRequestDTO is used for incoming login requests.
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// AuthResponseDTO is returned after a successful signup or login.
type AuthResponseDTO struct {
	Token string          `json:"token"`
	User  UserResponseDTO `json:"user"`
}

// ChangePasswordDTO is used for password change requests.
type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
