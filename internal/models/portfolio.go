package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingView is the aggregated position in one asset, derived from the
// owner's transactions and the latest quote set. It is recomputed on every
// price tick and never stored.
type HoldingView struct {
	AssetID          string          `json:"asset_id"`
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	ProfitLoss       decimal.Decimal `json:"profit_loss"`
	Change24hPercent decimal.Decimal `json:"change_24h_percent"`
	ImageURL         string          `json:"image_url"`

	// Live is false when no quote was known for the asset and the holding
	// was valued at cost basis (stale fallback).
	Live bool `json:"live"`
}

// PortfolioTotals sums current value and profit/loss across holdings.
type PortfolioTotals struct {
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalProfitLoss decimal.Decimal `json:"total_profit_loss"`
}

// ValueSample is one timestamped total-portfolio-value data point used for
// charting.
type ValueSample struct {
	Timestamp  time.Time       `json:"timestamp"`
	TotalValue decimal.Decimal `json:"total_value"`
}
