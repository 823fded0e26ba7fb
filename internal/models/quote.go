package models

import (
	"github.com/shopspring/decimal"

	"github.com/khanhng/coinfolio/internal/apperrors"
)

// AssetQuote is a live price/metadata snapshot for one asset from the external
// market-data feed. Quotes are ephemeral: they live in the in-memory quote
// store and are never persisted.
type AssetQuote struct {
	AssetID          string            `json:"asset_id"`
	Symbol           string            `json:"symbol"`
	Name             string            `json:"name"`
	CurrentPrice     decimal.Decimal   `json:"current_price"`
	Change24hPercent decimal.Decimal   `json:"change_24h_percent"`
	ImageURL         string            `json:"image_url"`
	Sparkline7d      []decimal.Decimal `json:"sparkline_7d,omitempty"`
}

// Validate validates the quote data
func (q *AssetQuote) Validate() error {
	if q.AssetID == "" {
		return apperrors.NewValidation("asset_id", "is required")
	}
	if q.CurrentPrice.IsNegative() {
		return apperrors.NewValidation("current_price", "must be non-negative")
	}
	return nil
}
