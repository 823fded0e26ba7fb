// Package portfolio implements the valuation core: pure holdings aggregation
// over transactions and live quotes, a bounded total-value series for
// charting, and the periodic sampler that feeds it.
package portfolio

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
)

// QuoteSet is the latest known quote per asset id.
type QuoteSet map[string]models.AssetQuote

// NewQuoteSet builds a QuoteSet from a quote slice. Later entries for the
// same asset overwrite earlier ones (last-write-wins).
func NewQuoteSet(quotes []models.AssetQuote) QuoteSet {
	set := make(QuoteSet, len(quotes))
	for _, q := range quotes {
		if q.AssetID == "" {
			continue
		}
		set[q.AssetID] = q
	}
	return set
}

// ComputeHoldings groups transactions by asset id and values each transaction
// at the live quote price, falling back to the transaction's own purchase
// price when no quote is known for the asset. It is pure and never fails: an
// empty or partial quote set degrades to cost-basis valuation, and an empty
// transaction list yields an empty result.
//
// Holdings are returned in first-seen transaction order.
func ComputeHoldings(transactions []*models.Transaction, quotes QuoteSet) []models.HoldingView {
	holdings := make([]models.HoldingView, 0, len(transactions))
	index := make(map[string]int, len(transactions))

	for _, tx := range transactions {
		if tx == nil {
			continue
		}
		i, ok := index[tx.AssetID]
		if !ok {
			i = len(holdings)
			index[tx.AssetID] = i
			holdings = append(holdings, newHoldingView(tx.AssetID, quotes))
		}

		h := &holdings[i]
		price := tx.PurchasePrice
		if q, ok := quotes[tx.AssetID]; ok {
			price = q.CurrentPrice
		}
		h.Quantity = h.Quantity.Add(tx.Quantity)
		h.CostBasis = h.CostBasis.Add(tx.CostBasis())
		h.CurrentValue = h.CurrentValue.Add(tx.Quantity.Mul(price))
	}

	for i := range holdings {
		holdings[i].ProfitLoss = holdings[i].CurrentValue.Sub(holdings[i].CostBasis)
	}
	return holdings
}

func newHoldingView(assetID string, quotes QuoteSet) models.HoldingView {
	h := models.HoldingView{
		AssetID: assetID,
		Symbol:  strings.ToUpper(assetID),
	}
	if q, ok := quotes[assetID]; ok {
		h.Symbol = strings.ToUpper(q.Symbol)
		h.Name = q.Name
		h.Change24hPercent = q.Change24hPercent
		h.ImageURL = q.ImageURL
		h.Live = true
	}
	return h
}

// ComputeTotals sums current value and profit/loss across holdings.
func ComputeTotals(holdings []models.HoldingView) models.PortfolioTotals {
	totals := models.PortfolioTotals{
		TotalValue:      decimal.Zero,
		TotalProfitLoss: decimal.Zero,
	}
	for _, h := range holdings {
		totals.TotalValue = totals.TotalValue.Add(h.CurrentValue)
		totals.TotalProfitLoss = totals.TotalProfitLoss.Add(h.ProfitLoss)
	}
	return totals
}

// SortField selects the holdings sort key.
type SortField string

const (
	SortBySymbol     SortField = "symbol"
	SortByValue      SortField = "value"
	SortByQuantity   SortField = "quantity"
	SortByProfitLoss SortField = "profit"
)

// ParseSortField maps a query-string value to a SortField. An empty value
// means symbol order; anything else unrecognized is a validation error.
func ParseSortField(s string) (SortField, error) {
	switch SortField(strings.ToLower(s)) {
	case SortBySymbol, "":
		return SortBySymbol, nil
	case SortByValue:
		return SortByValue, nil
	case SortByQuantity:
		return SortByQuantity, nil
	case SortByProfitLoss:
		return SortByProfitLoss, nil
	default:
		return SortBySymbol, apperrors.NewValidation("sort", "must be one of symbol, value, quantity, profit")
	}
}

// SortHoldings orders holdings in place by the given field. The sort is
// stable: ties keep their input order.
func SortHoldings(holdings []models.HoldingView, field SortField, descending bool) {
	less := func(a, b models.HoldingView) bool {
		switch field {
		case SortByValue:
			return a.CurrentValue.LessThan(b.CurrentValue)
		case SortByQuantity:
			return a.Quantity.LessThan(b.Quantity)
		case SortByProfitLoss:
			return a.ProfitLoss.LessThan(b.ProfitLoss)
		default:
			return a.Symbol < b.Symbol
		}
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		if descending {
			return less(holdings[j], holdings[i])
		}
		return less(holdings[i], holdings[j])
	})
}
