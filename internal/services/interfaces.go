package services

import (
	"context"
	"time"

	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/portfolio"
)

// AuthService defines signup, login, and bearer-token session resolution
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	// ResolveSession validates a bearer token and resolves the user it
	// identifies. Invalid or expired tokens yield an AuthError.
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, userID, id string) error
}

// QuoteProvider is the external market-data boundary
type QuoteProvider interface {
	GetQuotes(ctx context.Context, assetIDs []string) ([]models.AssetQuote, error)
	GetMarkets(ctx context.Context, perPage, page int) ([]models.AssetQuote, error)
}

// QuoteService maintains the in-memory quote map fed by the price feed
type QuoteService interface {
	// Snapshot returns the latest known quote per asset id.
	Snapshot() portfolio.QuoteSet
	// ApplyTick overwrites the quotes for the supplied assets only
	// (push-style partial update, last-write-wins).
	ApplyTick(quotes []models.AssetQuote)
	// Refresh polls the provider once for all tracked assets. A failed
	// poll leaves the store untouched.
	Refresh(ctx context.Context) error
	Markets(ctx context.Context, perPage, page int) ([]models.AssetQuote, error)
	Start()
	Stop()
}

// PortfolioService combines transactions with live quotes into holdings,
// totals, and the per-user value history.
type PortfolioService interface {
	Holdings(ctx context.Context, userID string, sortBy portfolio.SortField, descending bool) ([]models.HoldingView, models.PortfolioTotals, error)
	History(ctx context.Context, userID string, window time.Duration) ([]models.ValueSample, error)
	// Release discards the user's session aggregator (logout).
	Release(userID string)
	// Shutdown stops every session sampler.
	Shutdown()
}
