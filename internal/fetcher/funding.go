// Package fetcher provides the market-data facade bound to one Binance
// trading venue.
//
// This file contains the funding-rate extraction: a raw premium-index
// listing becomes one canonical row per symbol, in venue order.
package fetcher

import (
	"fmt"
	"math"
	"strconv"

	"marketdata/internal/exchange"
	"marketdata/internal/model"

	"github.com/rs/zerolog/log"
)

// extractFundingRates maps raw funding entries onto canonical rows.
//
// A last-funding-rate string that fails numeric parsing degrades to the
// NaN sentinel instead of failing the batch: venues return placeholder
// text (e.g. "-") for symbols with no funding history, and one symbol's
// data quality must not block the rest. Structural problems (an entry
// without a symbol) still fail the call.
func (f *Fetcher) extractFundingRates(entries []exchange.PremiumIndexEntry) ([]model.FundingRate, error) {
	out := make([]model.FundingRate, 0, len(entries))
	for i, entry := range entries {
		if err := f.validate.Struct(&entry); err != nil {
			return nil, fmt.Errorf("premium index entry %d: %w", i, err)
		}

		rate, err := strconv.ParseFloat(entry.LastFundingRate, 64)
		if err != nil {
			log.Debug().
				Str("symbol", entry.Symbol).
				Str("lastFundingRate", entry.LastFundingRate).
				Msg("non-numeric funding rate, recording as missing")
			rate = math.NaN()
		}

		out = append(out, model.FundingRate{Symbol: entry.Symbol, Rate: rate})
	}

	return out, nil
}
