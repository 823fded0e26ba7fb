package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/khanhng/coinfolio/internal/models"
)

func sampleAt(sec int64) models.ValueSample {
	return models.ValueSample{
		Timestamp:  time.Unix(sec, 0).UTC(),
		TotalValue: decimal.NewFromInt(sec),
	}
}

func TestValueSeriesEvictsOldestAtCapacity(t *testing.T) {
	series := NewValueSeries(3)
	for i := int64(1); i <= 5; i++ {
		series.Record(sampleAt(i))
	}

	got := series.Samples()
	require.Len(t, got, 3)
	require.Equal(t, []models.ValueSample{sampleAt(3), sampleAt(4), sampleAt(5)}, got)
}

func TestValueSeriesNeverExceedsCapacity(t *testing.T) {
	series := NewValueSeries(10)
	for i := int64(0); i < 100; i++ {
		series.Record(sampleAt(i))
		require.LessOrEqual(t, series.Len(), 10)
	}
	require.Equal(t, 10, series.Len())
}

func TestValueSeriesDefaultCapacity(t *testing.T) {
	require.Equal(t, DefaultSeriesCapacity, NewValueSeries(0).Capacity())
	require.Equal(t, DefaultSeriesCapacity, NewValueSeries(-1).Capacity())
}

func TestWindowFiltersByTimestamp(t *testing.T) {
	series := NewValueSeries(100)
	for i := int64(10); i <= 50; i += 10 {
		series.Record(sampleAt(i))
	}
	now := time.Unix(50, 0).UTC()

	got := series.Window(20*time.Second, now)
	require.Equal(t, []models.ValueSample{sampleAt(30), sampleAt(40), sampleAt(50)}, got)

	// A window is a pure filter: every element must come from the input, in order.
	all := series.Samples()
	require.Subset(t, all, got)
	require.Equal(t, 5, series.Len())
}

func TestWindowZeroDurationReturnsAll(t *testing.T) {
	series := NewValueSeries(100)
	series.Record(sampleAt(1))
	series.Record(sampleAt(2))

	require.Len(t, series.Window(0, time.Unix(100, 0)), 2)
}

func TestWindowOutsideRangeIsEmpty(t *testing.T) {
	series := NewValueSeries(100)
	series.Record(sampleAt(1))

	got := series.Window(time.Second, time.Unix(100, 0).UTC())
	require.Empty(t, got)
}
