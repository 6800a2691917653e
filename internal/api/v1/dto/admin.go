package dto

// BroadcastDTO is an admin announcement pushed to connected listeners.
type BroadcastDTO struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required,max=2000"`
}
