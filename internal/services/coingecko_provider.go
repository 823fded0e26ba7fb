package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko-based implementation (no API key required for basic endpoints)
type CoinGeckoProvider struct {
	httpClient *http.Client
	baseURL    string
}

// NewCoinGeckoProvider creates a provider against the public CoinGecko API.
// COINGECKO_BASE_URL overrides the endpoint (tests point it at a stub).
func NewCoinGeckoProvider() *CoinGeckoProvider {
	baseURL := os.Getenv("COINGECKO_BASE_URL")
	if baseURL == "" {
		baseURL = defaultCoinGeckoBaseURL
	}
	return NewCoinGeckoProviderWithBaseURL(baseURL)
}

// NewCoinGeckoProviderWithBaseURL creates a provider against a specific endpoint.
func NewCoinGeckoProviderWithBaseURL(baseURL string) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// coinGeckoMarket mirrors one entry of the /coins/markets payload.
type coinGeckoMarket struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Image             string  `json:"image"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
	SparklineIn7d     struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

func (p *CoinGeckoProvider) GetQuotes(ctx context.Context, assetIDs []string) ([]models.AssetQuote, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", strings.Join(assetIDs, ","))
	params.Set("sparkline", "true")
	return p.fetchMarkets(ctx, params)
}

func (p *CoinGeckoProvider) GetMarkets(ctx context.Context, perPage, page int) ([]models.AssetQuote, error) {
	if perPage <= 0 || perPage > 250 {
		perPage = 100
	}
	if page <= 0 {
		page = 1
	}
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("sparkline", "true")
	return p.fetchMarkets(ctx, params)
}

func (p *CoinGeckoProvider) fetchMarkets(ctx context.Context, params url.Values) ([]models.AssetQuote, error) {
	endpoint := fmt.Sprintf("%s/coins/markets?%s", p.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstream("price feed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstream("price feed", fmt.Errorf("coingecko status %d", resp.StatusCode))
	}

	var payload []coinGeckoMarket
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewUpstream("price feed", err)
	}

	quotes := make([]models.AssetQuote, 0, len(payload))
	for _, m := range payload {
		if m.ID == "" {
			continue
		}
		q := models.AssetQuote{
			AssetID:          m.ID,
			Symbol:           m.Symbol,
			Name:             m.Name,
			ImageURL:         m.Image,
			CurrentPrice:     decimal.NewFromFloat(m.CurrentPrice),
			Change24hPercent: decimal.NewFromFloat(m.PriceChangePct24h),
		}
		if len(m.SparklineIn7d.Price) > 0 {
			q.Sparkline7d = make([]decimal.Decimal, len(m.SparklineIn7d.Price))
			for i, v := range m.SparklineIn7d.Price {
				q.Sparkline7d[i] = decimal.NewFromFloat(v)
			}
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
