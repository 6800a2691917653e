package model

import "time"

// Thread is a conversation between buyer and seller, keyed uniquely by
// (kind, listing_id). At most one thread exists per accepted listing.
type Thread struct {
	ID        int64       `db:"id" json:"id"`
	Kind      ListingKind `db:"kind" json:"kind"`
	ListingID int64       `db:"listing_id" json:"listing_id"`
	SellerID  int64       `db:"seller_id" json:"seller_id"`
	BuyerID   int64       `db:"buyer_id" json:"buyer_id"`
	Open      bool        `db:"open" json:"open"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Involves reports whether the user is a party to the thread.
func (t *Thread) Involves(userID int64) bool {
	return t.SellerID == userID || t.BuyerID == userID
}

// ThreadSummary annotates a thread with the counterparty identity and the
// most recent message body for inbox listings. Unread tracking is not
// implemented; the count is always zero.
type ThreadSummary struct {
	ID         int64       `json:"id"`
	Kind       ListingKind `json:"kind"`
	OtherParty string      `json:"other_party"`
	LastBody   *string     `json:"last_body"`
	Unread     int         `json:"unread"`
}

// Message belongs to a thread. Messages are immutable and ordered by
// creation time.
type Message struct {
	ID          int64     `db:"id" json:"id"`
	ThreadID    int64     `db:"thread_id" json:"thread_id"`
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	SenderEmail string    `db:"sender_email" json:"from_email,omitempty"`
	Body        string    `db:"body" json:"body"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
