package model

import (
	"math"
	"time"
)

// ListingKind tags the two listing variants sharing one lifecycle.
type ListingKind string

const (
	KindMeal ListingKind = "meal"
	KindItem ListingKind = "item"
)

// ListingStatus values. Transitions are one-way: active to accepted, or
// active to cancelled. A listing never leaves a terminal state.
type ListingStatus string

const (
	StatusActive    ListingStatus = "active"
	StatusAccepted  ListingStatus = "accepted"
	StatusCancelled ListingStatus = "cancelled"
)

// MealDetails is the payload specific to meal-swipe listings.
type MealDetails struct {
	Meals    int    `db:"meals" json:"meals"`
	Location string `db:"location" json:"location"`
	MealType string `db:"meal_type" json:"meal_type"`
}

// ItemDetails is the payload specific to physical item listings.
type ItemDetails struct {
	Name     string  `db:"name" json:"name"`
	Category string  `db:"category" json:"category"`
	ImgURL   string  `db:"img_url" json:"img_url"`
	Baseline float64 `db:"baseline" json:"baseline"`
}

// Listing is a sellable unit. Lifecycle fields are shared across variants;
// exactly one of Meal or Item is set, selected by Kind.
type Listing struct {
	ID           int64         `db:"id" json:"id"`
	Kind         ListingKind   `db:"kind" json:"kind"`
	SellerID     int64         `db:"seller_id" json:"seller_id"`
	SellerEmail  string        `db:"seller_email" json:"seller,omitempty"`
	Price        float64       `db:"price" json:"price"`
	Status       ListingStatus `db:"status" json:"status"`
	AcceptedByID *int64        `db:"accepted_by_id" json:"accepted_by_id,omitempty"`
	BuyerMessage string        `db:"buyer_message" json:"-"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`

	Meal *MealDetails `json:"meal,omitempty"`
	Item *ItemDetails `json:"item,omitempty"`
}

// DiscountPct derives the displayed discount for item listings at read time,
// so price or baseline edits before acceptance keep the figure accurate.
// Returns 0 when there is no baseline, and never goes negative.
func (l *Listing) DiscountPct() int {
	if l.Item == nil || l.Item.Baseline <= 0 {
		return 0
	}
	pct := int(math.Round((1 - l.Price/l.Item.Baseline) * 100))
	if pct < 0 {
		return 0
	}
	return pct
}
