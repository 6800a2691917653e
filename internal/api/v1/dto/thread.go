package dto

import "time"

// ThreadSummaryDTO is one inbox row.
type ThreadSummaryDTO struct {
	ID         int64   `json:"id"`
	Kind       string  `json:"kind"`
	OtherParty string  `json:"other_party"`
	LastBody   *string `json:"last_body"`
	Unread     int     `json:"unread"`
}

// MessageCreateDTO is used for posting a message into a thread.
type MessageCreateDTO struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// MessageResponseDTO is returned for each message in a thread.
type MessageResponseDTO struct {
	ID        int64     `json:"id"`
	ThreadID  int64     `json:"thread_id"`
	SenderID  int64     `json:"sender_id"`
	FromEmail string    `json:"from_email,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
