package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/khanhng/coinfolio/internal/models"
)

// TotalValueFunc produces the current total portfolio value. A failure skips
// the tick; it is never fatal to the sampler.
type TotalValueFunc func(ctx context.Context) (decimal.Decimal, error)

// Sampler periodically records the portfolio's total value into a
// ValueSeries. Start and Stop are idempotent: stopping pauses appending and a
// later Start resumes on the same series without corrupting it.
type Sampler struct {
	series   *ValueSeries
	interval time.Duration
	total    TotalValueFunc
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSampler creates a sampler appending to series every interval.
func NewSampler(series *ValueSeries, interval time.Duration, total TotalValueFunc, logger *zap.Logger) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		series:   series,
		interval: interval,
		total:    total,
		logger:   logger,
	}
}

// Start begins periodic sampling. Calling Start on a running sampler is a
// no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sample(ctx, now)
		}
	}
}

func (s *Sampler) sample(ctx context.Context, now time.Time) {
	tickCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	total, err := s.total(tickCtx)
	if err != nil {
		s.logger.Debug("skipping value sample", zap.Error(err))
		return
	}
	s.series.Record(models.ValueSample{Timestamp: now, TotalValue: total})
}

// Stop halts sampling and waits for the in-flight tick to finish. Calling
// Stop on a stopped sampler is a no-op.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the sampler is currently started.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Series returns the series the sampler appends to.
func (s *Sampler) Series() *ValueSeries {
	return s.series
}
