package portfolio

import (
	"time"

	"go.uber.org/zap"

	"github.com/khanhng/coinfolio/internal/models"
)

// Aggregator owns the live-update state for one user's portfolio session: the
// bounded value series and the sampler feeding it. Instances are explicitly
// constructed per session and closed when the session ends; there is no
// module-level state.
type Aggregator struct {
	series  *ValueSeries
	sampler *Sampler
}

// NewAggregator creates a session aggregator with a series bounded to
// capacity and a sampler driven by total every interval.
func NewAggregator(capacity int, interval time.Duration, total TotalValueFunc, logger *zap.Logger) *Aggregator {
	series := NewValueSeries(capacity)
	return &Aggregator{
		series:  series,
		sampler: NewSampler(series, interval, total, logger),
	}
}

// Start begins periodic value sampling. Idempotent.
func (a *Aggregator) Start() {
	a.sampler.Start()
}

// Close stops sampling. The accumulated series stays readable, and a later
// Start resumes appending to it.
func (a *Aggregator) Close() {
	a.sampler.Stop()
}

// Series returns the aggregator's value series.
func (a *Aggregator) Series() *ValueSeries {
	return a.series
}

// History returns the samples within the trailing window ending at now.
func (a *Aggregator) History(window time.Duration, now time.Time) []models.ValueSample {
	return a.series.Window(window, now)
}
