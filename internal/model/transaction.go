package model

import "time"

// Transaction is the immutable record of a successful acceptance. Exactly
// one exists per accepted listing; it is created in the same database
// transaction as the status transition.
type Transaction struct {
	ID        int64       `db:"id" json:"id"`
	Kind      ListingKind `db:"kind" json:"kind"`
	ListingID int64       `db:"listing_id" json:"listing_id"`
	SellerID  int64       `db:"seller_id" json:"seller_id"`
	BuyerID   int64       `db:"buyer_id" json:"buyer_id"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
