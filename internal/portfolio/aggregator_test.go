package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/khanhng/coinfolio/internal/models"
)

func buyTx(assetID string, qty, price float64) *models.Transaction {
	return &models.Transaction{
		UserID:        "user-1",
		AssetID:       assetID,
		Quantity:      decimal.NewFromFloat(qty),
		PurchasePrice: decimal.NewFromFloat(price),
		PurchaseDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func quote(assetID, symbol string, price float64) models.AssetQuote {
	return models.AssetQuote{
		AssetID:      assetID,
		Symbol:       symbol,
		CurrentPrice: decimal.NewFromFloat(price),
	}
}

func TestComputeHoldingsWithLiveQuote(t *testing.T) {
	txs := []*models.Transaction{buyTx("btc", 1, 50000)}
	quotes := NewQuoteSet([]models.AssetQuote{quote("btc", "btc", 60000)})

	holdings := ComputeHoldings(txs, quotes)
	require.Len(t, holdings, 1)

	h := holdings[0]
	require.Equal(t, "btc", h.AssetID)
	require.Equal(t, "BTC", h.Symbol)
	require.True(t, h.Live)
	require.True(t, h.Quantity.Equal(decimal.NewFromInt(1)))
	require.True(t, h.CurrentValue.Equal(decimal.NewFromInt(60000)))
	require.True(t, h.ProfitLoss.Equal(decimal.NewFromInt(10000)))
}

func TestComputeHoldingsFallsBackToPurchasePrice(t *testing.T) {
	// Feed down: no quotes at all.
	txs := []*models.Transaction{buyTx("eth", 2, 2000)}

	holdings := ComputeHoldings(txs, NewQuoteSet(nil))
	require.Len(t, holdings, 1)

	h := holdings[0]
	require.False(t, h.Live)
	require.True(t, h.CurrentValue.Equal(decimal.NewFromInt(4000)))
	require.True(t, h.ProfitLoss.IsZero())
}

func TestComputeHoldingsGroupsByAsset(t *testing.T) {
	txs := []*models.Transaction{
		buyTx("btc", 1, 40000),
		buyTx("eth", 10, 2000),
		buyTx("btc", 0.5, 60000),
	}
	quotes := NewQuoteSet([]models.AssetQuote{quote("btc", "btc", 50000)})

	holdings := ComputeHoldings(txs, quotes)
	require.Len(t, holdings, 2)

	// First-seen order.
	require.Equal(t, "btc", holdings[0].AssetID)
	require.Equal(t, "eth", holdings[1].AssetID)

	btc := holdings[0]
	require.True(t, btc.Quantity.Equal(decimal.NewFromFloat(1.5)))
	require.True(t, btc.CostBasis.Equal(decimal.NewFromInt(70000)))
	require.True(t, btc.CurrentValue.Equal(decimal.NewFromInt(75000)))
	require.True(t, btc.ProfitLoss.Equal(decimal.NewFromInt(5000)))

	// eth has no quote: valued per-transaction at purchase price.
	eth := holdings[1]
	require.False(t, eth.Live)
	require.True(t, eth.CurrentValue.Equal(decimal.NewFromInt(20000)))
}

func TestComputeHoldingsEmptyInputs(t *testing.T) {
	holdings := ComputeHoldings(nil, NewQuoteSet(nil))
	require.Empty(t, holdings)

	totals := ComputeTotals(holdings)
	require.True(t, totals.TotalValue.IsZero())
	require.True(t, totals.TotalProfitLoss.IsZero())
}

func TestComputeHoldingsIsDeterministic(t *testing.T) {
	txs := []*models.Transaction{
		buyTx("btc", 1, 40000),
		buyTx("eth", 3, 1800),
		buyTx("sol", 20, 150),
	}
	quotes := NewQuoteSet([]models.AssetQuote{
		quote("btc", "btc", 50000),
		quote("sol", "sol", 140),
	})

	first := ComputeHoldings(txs, quotes)
	second := ComputeHoldings(txs, quotes)
	require.Equal(t, first, second)
}

// Total value must equal the per-transaction sum of quote-or-fallback price
// times quantity, for any combination of transactions and quotes.
func TestTotalsMatchPerTransactionSum(t *testing.T) {
	txs := []*models.Transaction{
		buyTx("btc", 0.25, 48000),
		buyTx("eth", 4, 2100),
		buyTx("doge", 1000, 0.08),
		buyTx("btc", 0.75, 52000),
	}
	quotes := NewQuoteSet([]models.AssetQuote{
		quote("btc", "btc", 61000),
		quote("doge", "doge", 0.1),
	})

	expected := decimal.Zero
	for _, tx := range txs {
		price := tx.PurchasePrice
		if q, ok := quotes[tx.AssetID]; ok {
			price = q.CurrentPrice
		}
		expected = expected.Add(price.Mul(tx.Quantity))
	}

	totals := ComputeTotals(ComputeHoldings(txs, quotes))
	require.True(t, totals.TotalValue.Equal(expected),
		"expected %s, got %s", expected, totals.TotalValue)
}

func TestSortHoldings(t *testing.T) {
	mk := func(symbol string, value, qty, pl int64) models.HoldingView {
		return models.HoldingView{
			Symbol:       symbol,
			CurrentValue: decimal.NewFromInt(value),
			Quantity:     decimal.NewFromInt(qty),
			ProfitLoss:   decimal.NewFromInt(pl),
		}
	}
	input := []models.HoldingView{
		mk("ETH", 300, 3, -5),
		mk("BTC", 500, 1, 20),
		mk("ADA", 300, 900, 10),
	}

	holdings := append([]models.HoldingView(nil), input...)
	SortHoldings(holdings, SortBySymbol, false)
	require.Equal(t, []string{"ADA", "BTC", "ETH"}, symbols(holdings))

	holdings = append([]models.HoldingView(nil), input...)
	SortHoldings(holdings, SortByValue, true)
	require.Equal(t, "BTC", holdings[0].Symbol)
	// Tie on value: stable sort keeps ETH before ADA.
	require.Equal(t, []string{"BTC", "ETH", "ADA"}, symbols(holdings))

	holdings = append([]models.HoldingView(nil), input...)
	SortHoldings(holdings, SortByQuantity, false)
	require.Equal(t, []string{"BTC", "ETH", "ADA"}, symbols(holdings))

	holdings = append([]models.HoldingView(nil), input...)
	SortHoldings(holdings, SortByProfitLoss, true)
	require.Equal(t, []string{"BTC", "ADA", "ETH"}, symbols(holdings))
}

func symbols(holdings []models.HoldingView) []string {
	out := make([]string, len(holdings))
	for i, h := range holdings {
		out[i] = h.Symbol
	}
	return out
}

func TestParseSortField(t *testing.T) {
	for raw, want := range map[string]SortField{
		"value":    SortByValue,
		"PROFIT":   SortByProfitLoss,
		"quantity": SortByQuantity,
		"symbol":   SortBySymbol,
		"":         SortBySymbol,
	} {
		got, err := ParseSortField(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}

	_, err := ParseSortField("bogus")
	require.Error(t, err)
}
