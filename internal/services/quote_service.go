package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/portfolio"
)

// TrackedAssetsFunc lists the asset ids whose prices should be polled
// (typically every asset referenced by a stored transaction).
type TrackedAssetsFunc func(ctx context.Context) ([]string, error)

// quoteService holds the in-memory quote map. Every update, whether a polled
// batch or a push tick, is a full-state overwrite of the affected assets, so
// late or out-of-order updates need no coordination beyond last-write-wins.
type quoteService struct {
	provider QuoteProvider
	tracked  TrackedAssetsFunc
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	quotes map[string]models.AssetQuote

	marketsMu sync.Mutex
	markets   []models.AssetQuote
	marketsAt time.Time

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

const marketsCacheTTL = 60 * time.Second

// NewQuoteService creates a quote service polling provider every interval for
// the assets reported by tracked.
func NewQuoteService(provider QuoteProvider, tracked TrackedAssetsFunc, interval time.Duration, logger *zap.Logger) QuoteService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &quoteService{
		provider: provider,
		tracked:  tracked,
		interval: interval,
		logger:   logger,
		quotes:   make(map[string]models.AssetQuote),
	}
}

func (s *quoteService) Snapshot() portfolio.QuoteSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(portfolio.QuoteSet, len(s.quotes))
	for id, q := range s.quotes {
		set[id] = q
	}
	return set
}

func (s *quoteService) ApplyTick(quotes []models.AssetQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quotes {
		if q.Validate() != nil {
			continue
		}
		s.quotes[q.AssetID] = q
	}
}

func (s *quoteService) Refresh(ctx context.Context) error {
	ids, err := s.trackedAssetIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	quotes, err := s.provider.GetQuotes(ctx, ids)
	if err != nil {
		return fmt.Errorf("quote refresh: %w", err)
	}
	s.ApplyTick(quotes)
	return nil
}

// trackedAssetIDs unions the repository's asset ids with everything already
// in the store, so assets keep refreshing even if their transactions are
// deleted mid-session.
func (s *quoteService) trackedAssetIDs(ctx context.Context) ([]string, error) {
	set := make(map[string]struct{})
	if s.tracked != nil {
		ids, err := s.tracked(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing tracked assets: %w", err)
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}

	s.mu.RLock()
	for id := range s.quotes {
		set[id] = struct{}{}
	}
	s.mu.RUnlock()

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *quoteService) Markets(ctx context.Context, perPage, page int) ([]models.AssetQuote, error) {
	// Only the dashboard's default first page is cached.
	cacheable := (perPage == 0 || perPage == 100) && (page == 0 || page == 1)

	if cacheable {
		s.marketsMu.Lock()
		if s.markets != nil && time.Since(s.marketsAt) < marketsCacheTTL {
			cached := s.markets
			s.marketsMu.Unlock()
			return cached, nil
		}
		s.marketsMu.Unlock()
	}

	markets, err := s.provider.GetMarkets(ctx, perPage, page)
	if err != nil {
		// Serve the stale page rather than an error if we have one.
		if cacheable {
			s.marketsMu.Lock()
			cached := s.markets
			s.marketsMu.Unlock()
			if cached != nil {
				s.logger.Warn("price feed unreachable, serving cached markets", zap.Error(err))
				return cached, nil
			}
		}
		return nil, err
	}

	if cacheable {
		s.marketsMu.Lock()
		s.markets = markets
		s.marketsAt = time.Now()
		s.marketsMu.Unlock()
	}

	// Market rows double as price ticks for the quote map.
	s.ApplyTick(markets)
	return markets, nil
}

// Start launches the background poll loop. Idempotent.
func (s *quoteService) Start() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pollCtx, cancelPoll := context.WithTimeout(ctx, s.interval)
				if err := s.Refresh(pollCtx); err != nil {
					// Absorbed: holdings degrade to last-known or
					// cost-basis values.
					s.logger.Warn("quote refresh failed", zap.Error(err))
				}
				cancelPoll()
			}
		}
	}(s.done)
}

// Stop halts the poll loop. Idempotent.
func (s *quoteService) Stop() {
	s.lifecycle.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.lifecycle.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
