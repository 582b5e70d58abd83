package candles

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"marketdata/internal/exchange"
	"marketdata/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawKline builds one positional kline record the way the exchange encodes
// it: JSON numbers for timestamps and trade counts, numeric strings for
// prices and volumes.
func rawKline(beginMS int64, open, high, low, close_, volume string, closeMS int64,
	quoteVolume string, tradeNum int64, takerBase, takerQuote string) exchange.RawKline {
	return exchange.RawKline{
		float64(beginMS), open, high, low, close_, volume,
		float64(closeMS), quoteVolume, float64(tradeNum), takerBase, takerQuote, "0",
	}
}

// Test_Normalize_ReversedHourlyBars checks the out-of-order case: two
// one-hour bars delivered in reverse order come out sorted with derived
// close boundaries
func Test_Normalize_ReversedHourlyBars(t *testing.T) {
	klines := []exchange.RawKline{
		rawKline(3_600_000, "101.0", "103.0", "100.5", "102.0", "5.0", 7_199_999, "510.0", 7, "2.0", "204.0"),
		rawKline(0, "100.0", "102.0", "99.0", "101.0", "10.0", 3_599_999, "1000.0", 12, "4.0", "404.0"),
	}

	series, err := Normalize(klines, "1h")
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.UnixMilli(0).UTC(), series[0].BeginTime, "Earlier bar should sort first")
	assert.Equal(t, time.UnixMilli(3_600_000).UTC(), series[0].EndTime, "End time should be begin plus one hour")
	assert.Equal(t, time.UnixMilli(3_600_000).UTC(), series[1].BeginTime)
	assert.Equal(t, time.UnixMilli(7_200_000).UTC(), series[1].EndTime)

	first := series[0]
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 102.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 101.0, first.Close)
	assert.Equal(t, 10.0, first.Volume)
	assert.Equal(t, 1000.0, first.QuoteVolume)
	assert.Equal(t, int64(12), first.TradeNum)
	assert.Equal(t, 4.0, first.TakerBuyBaseVolume)
	assert.Equal(t, 404.0, first.TakerBuyQuoteVolume)
}

// Test_Normalize_SortedForAnyPermutation verifies the ascending-order
// invariant holds regardless of input order
func Test_Normalize_SortedForAnyPermutation(t *testing.T) {
	base := make([]exchange.RawKline, 0, 20)
	for i := int64(0); i < 20; i++ {
		base = append(base, rawKline(i*60_000, "1", "2", "0.5", "1.5", "3", i*60_000+59_999, "4.5", i, "1", "1.5"))
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]exchange.RawKline, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		series, err := Normalize(shuffled, "1m")
		require.NoError(t, err)
		require.Len(t, series, len(base))

		sorted := sort.SliceIsSorted(series, func(i, j int) bool {
			return series[i].BeginTime.Before(series[j].BeginTime)
		})
		assert.True(t, sorted, "Output must be sorted ascending by begin time")
	}
}

// Test_Normalize_EndTimeMatchesInterval verifies end minus begin equals the
// interval duration for every recognized tag shape
func Test_Normalize_EndTimeMatchesInterval(t *testing.T) {
	for _, tag := range []string{"1s", "1m", "5m", "15m", "1h", "4h", "1d", "1w"} {
		t.Run(tag, func(t *testing.T) {
			expected, err := utils.IntervalDuration(tag)
			require.NoError(t, err)

			series, err := Normalize([]exchange.RawKline{
				rawKline(1_600_000_000_000, "1", "1", "1", "1", "1", 0, "1", 1, "1", "1"),
			}, tag)
			require.NoError(t, err)
			require.Len(t, series, 1)

			assert.Equal(t, expected, series[0].EndTime.Sub(series[0].BeginTime),
				"End minus begin must equal the interval duration")
		})
	}
}

// Test_Normalize_DropsUninformativeFields verifies the close-time marker
// has no influence on the derived end time
func Test_Normalize_DropsUninformativeFields(t *testing.T) {
	// Deliberately inconsistent close_time and ignore fields
	series, err := Normalize([]exchange.RawKline{
		rawKline(0, "1", "1", "1", "1", "1", 999_999_999, "1", 1, "1", "1"),
	}, "1m")
	require.NoError(t, err)
	require.Len(t, series, 1)

	assert.Equal(t, time.UnixMilli(60_000).UTC(), series[0].EndTime,
		"End time must derive from begin time plus interval, never from close_time")
}

// Test_Normalize_DuplicateBeginTimesPreserved verifies duplicates are not deduplicated
func Test_Normalize_DuplicateBeginTimesPreserved(t *testing.T) {
	series, err := Normalize([]exchange.RawKline{
		rawKline(60_000, "1", "1", "1", "1", "1", 0, "1", 1, "1", "1"),
		rawKline(60_000, "2", "2", "2", "2", "2", 0, "2", 2, "2", "2"),
	}, "1m")
	require.NoError(t, err)

	assert.Len(t, series, 2, "Duplicate begin times must survive normalization")
	assert.Equal(t, series[0].BeginTime, series[1].BeginTime)
}

// Test_Normalize_UTCTimezone verifies begin times are UTC instants
func Test_Normalize_UTCTimezone(t *testing.T) {
	series, err := Normalize([]exchange.RawKline{
		rawKline(1_700_000_000_000, "1", "1", "1", "1", "1", 0, "1", 1, "1", "1"),
	}, "1h")
	require.NoError(t, err)
	require.Len(t, series, 1)

	assert.Equal(t, time.UTC, series[0].BeginTime.Location(), "Begin time must be UTC")
	assert.Equal(t, time.UTC, series[0].EndTime.Location(), "End time must be UTC")
}

// Test_Normalize_Errors tests the fatal input conditions
func Test_Normalize_Errors(t *testing.T) {
	valid := rawKline(0, "1", "1", "1", "1", "1", 0, "1", 1, "1", "1")

	tests := []struct {
		name        string
		klines      []exchange.RawKline
		interval    string
		description string
	}{
		{
			name:        "Unknown interval tag",
			klines:      []exchange.RawKline{valid},
			interval:    "1x",
			description: "Should fail for an unrecognized interval tag",
		},
		{
			name:        "Short row",
			klines:      []exchange.RawKline{valid[:6]},
			interval:    "1m",
			description: "Should fail when a row is missing kept fields",
		},
		{
			name: "Non-numeric price",
			klines: []exchange.RawKline{
				rawKline(0, "not-a-price", "1", "1", "1", "1", 0, "1", 1, "1", "1"),
			},
			interval:    "1m",
			description: "Should fail on an unparseable price",
		},
		{
			name: "Unexpected begin-time type",
			klines: []exchange.RawKline{
				{true, "1", "1", "1", "1", "1", float64(0), "1", float64(1), "1", "1", "0"},
			},
			interval:    "1m",
			description: "Should fail when begin time is not coercible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.klines, tt.interval)
			assert.Error(t, err, tt.description)
		})
	}
}

// Test_Normalize_EmptyInput verifies an empty payload yields an empty series
func Test_Normalize_EmptyInput(t *testing.T) {
	series, err := Normalize(nil, "1m")
	require.NoError(t, err)
	assert.Empty(t, series, "Empty payload should normalize to an empty series")
}

// Test_Normalize_StringTimestamps verifies numeric strings are accepted for
// integer columns as well
func Test_Normalize_StringTimestamps(t *testing.T) {
	series, err := Normalize([]exchange.RawKline{
		{"60000", "1", "1", "1", "1", "1", "119999", "1", "7", "1", "1", "0"},
	}, "1m")
	require.NoError(t, err)
	require.Len(t, series, 1)

	assert.Equal(t, time.UnixMilli(60_000).UTC(), series[0].BeginTime)
	assert.Equal(t, int64(7), series[0].TradeNum)
}
