package dto

// MealPriceSetDTO is used for setting a campus reference price.
type MealPriceSetDTO struct {
	University string  `json:"university" validate:"required"`
	MealType   string  `json:"meal_type" validate:"required"`
	Price      float64 `json:"price" validate:"required,gt=0"`
}
