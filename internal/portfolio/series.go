package portfolio

import (
	"sync"
	"time"

	"github.com/khanhng/coinfolio/internal/models"
)

// DefaultSeriesCapacity bounds the value series when no capacity is given.
const DefaultSeriesCapacity = 1000

// ValueSeries is a bounded, append-only time-series of total-portfolio-value
// samples. When the capacity is exceeded the oldest samples are evicted
// (FIFO), so memory stays bounded regardless of run duration.
//
// All methods are safe for concurrent use.
type ValueSeries struct {
	mu       sync.Mutex
	capacity int
	samples  []models.ValueSample
}

// NewValueSeries creates a series bounded to capacity samples. A
// non-positive capacity falls back to DefaultSeriesCapacity.
func NewValueSeries(capacity int) *ValueSeries {
	if capacity <= 0 {
		capacity = DefaultSeriesCapacity
	}
	return &ValueSeries{capacity: capacity}
}

// Record appends a sample, evicting the oldest entries while the series is
// over capacity.
func (s *ValueSeries) Record(sample models.ValueSample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, sample)
	if over := len(s.samples) - s.capacity; over > 0 {
		s.samples = append(s.samples[:0], s.samples[over:]...)
	}
}

// Len returns the current number of samples.
func (s *ValueSeries) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Capacity returns the series bound.
func (s *ValueSeries) Capacity() int {
	return s.capacity
}

// Samples returns a copy of all samples in append order.
func (s *ValueSeries) Samples() []models.ValueSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ValueSample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Window returns the samples with Timestamp >= now - d, in append order. A
// non-positive duration returns all samples. The underlying series is never
// mutated.
func (s *ValueSeries) Window(d time.Duration, now time.Time) []models.ValueSample {
	all := s.Samples()
	if d <= 0 {
		return all
	}

	cutoff := now.Add(-d)
	out := make([]models.ValueSample, 0, len(all))
	for _, sample := range all {
		if !sample.Timestamp.Before(cutoff) {
			out = append(out, sample)
		}
	}
	return out
}
