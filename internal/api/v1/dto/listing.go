package dto

import "time"

// MealCreateDTO is used for incoming meal listing requests.
type MealCreateDTO struct {
	Meals    int     `json:"meals" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Location string  `json:"location" validate:"required"`
	MealType string  `json:"meal_type" validate:"required"`
}

// ItemCreateDTO is used for incoming item listing requests.
type ItemCreateDTO struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Baseline float64 `json:"baseline" validate:"gte=0"`
	ImgURL   string  `json:"img_url"`
}

// ListingResponseDTO is returned in API responses for both listing kinds.
// Kind-specific fields are omitted when they do not apply.
type ListingResponseDTO struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	Seller       string    `json:"seller"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Meals        int       `json:"meals,omitempty"`
	Location     string    `json:"location,omitempty"`
	MealType     string    `json:"meal_type,omitempty"`
	Name         string    `json:"name,omitempty"`
	Category     string    `json:"category,omitempty"`
	ImgURL       string    `json:"img_url,omitempty"`
	Baseline     float64   `json:"baseline,omitempty"`
	DiscountPct  int       `json:"discount_pct,omitempty"`
	AcceptedByID *int64    `json:"accepted_by_id,omitempty"`
}

// AcceptRequestDTO is the optional body of an accept request. An empty
// message falls back to the server default.
type AcceptRequestDTO struct {
	Message string `json:"message"`
}

// AcceptResponseDTO is returned after a successful acceptance.
type AcceptResponseDTO struct {
	TransactionID int64 `json:"transaction_id"`
	ThreadID      int64 `json:"thread_id"`
}

// UploadURLRequestDTO asks for a presigned image upload slot.
type UploadURLRequestDTO struct {
	ContentType string `json:"content_type" validate:"required"`
}

// UploadURLResponseDTO carries the presigned PUT URL and the public URL
// the listing should reference after upload.
type UploadURLResponseDTO struct {
	UploadURL string `json:"upload_url"`
	ImgURL    string `json:"img_url"`
}
