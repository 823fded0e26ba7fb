package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/portfolio"
	"github.com/khanhng/coinfolio/internal/repositories"
)

// portfolioService implements the PortfolioService interface. It keeps one
// explicitly constructed aggregator per authenticated user, created on first
// use and discarded on logout.
type portfolioService struct {
	txs            repositories.TransactionRepository
	quotes         QuoteService
	capacity       int
	sampleInterval time.Duration
	logger         *zap.Logger

	mu       sync.Mutex
	sessions map[string]*portfolio.Aggregator
}

// NewPortfolioService creates a portfolio service. capacity bounds each
// user's value series; sampleInterval drives the per-user value sampler.
func NewPortfolioService(txs repositories.TransactionRepository, quotes QuoteService, capacity int, sampleInterval time.Duration, logger *zap.Logger) PortfolioService {
	if sampleInterval <= 0 {
		sampleInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &portfolioService{
		txs:            txs,
		quotes:         quotes,
		capacity:       capacity,
		sampleInterval: sampleInterval,
		logger:         logger,
		sessions:       make(map[string]*portfolio.Aggregator),
	}
}

func (s *portfolioService) Holdings(ctx context.Context, userID string, sortBy portfolio.SortField, descending bool) ([]models.HoldingView, models.PortfolioTotals, error) {
	txs, err := s.txs.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.PortfolioTotals{}, err
	}

	holdings := portfolio.ComputeHoldings(txs, s.quotes.Snapshot())
	portfolio.SortHoldings(holdings, sortBy, descending)
	return holdings, portfolio.ComputeTotals(holdings), nil
}

func (s *portfolioService) History(ctx context.Context, userID string, window time.Duration) ([]models.ValueSample, error) {
	return s.sessionFor(userID).History(window, time.Now()), nil
}

// sessionFor returns the user's aggregator, creating and starting it on
// first use.
func (s *portfolioService) sessionFor(userID string) *portfolio.Aggregator {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, ok := s.sessions[userID]
	if !ok {
		agg = portfolio.NewAggregator(s.capacity, s.sampleInterval, s.totalValueFunc(userID), s.logger)
		agg.Start()
		s.sessions[userID] = agg
		s.logger.Debug("portfolio session started", zap.String("user_id", userID))
	}
	return agg
}

// totalValueFunc builds the sampler source for one user: load transactions,
// value them against the current quote map, and sum.
func (s *portfolioService) totalValueFunc(userID string) portfolio.TotalValueFunc {
	return func(ctx context.Context) (decimal.Decimal, error) {
		txs, err := s.txs.ListByUser(ctx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		holdings := portfolio.ComputeHoldings(txs, s.quotes.Snapshot())
		return portfolio.ComputeTotals(holdings).TotalValue, nil
	}
}

func (s *portfolioService) Release(userID string) {
	s.mu.Lock()
	agg, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()

	if ok {
		agg.Close()
		s.logger.Debug("portfolio session released", zap.String("user_id", userID))
	}
}

func (s *portfolioService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*portfolio.Aggregator)
	s.mu.Unlock()

	for _, agg := range sessions {
		agg.Close()
	}
}
