package dto

// CommentCreateDTO is used for posting campus feedback. An omitted
// university falls back to the poster's own campus.
type CommentCreateDTO struct {
	University string `json:"university"`
	Body       string `json:"body" validate:"required,max=1000"`
}
