package dto

// UsageAdjustDTO records one ledger entry. Negative deltas are consumed
// meals, positive deltas are credits.
type UsageAdjustDTO struct {
	Delta int    `json:"delta" validate:"required"`
	Note  string `json:"note" validate:"max=500"`
}
