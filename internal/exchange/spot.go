// Package exchange provides REST market-data connectors for the Binance
// trading venues.
//
// The Spot connector serves the spot market REST API under /api/v3. Spot
// has no funding concept, so its premium-index operation fails without
// issuing a request.
package exchange

import (
	"context"
	"fmt"
)

// spotLimits holds the spot venue's static rate-limit figures: a 6000
// weight-per-minute budget, with klines costing a flat weight of 2 for any
// page size up to 1000 candles.
var spotLimits = APILimits{
	MaxMinuteWeight:            6000,
	WeightEfficientOnceCandles: 1000,
}

// Endpoint weight costs for the spot venue.
const (
	spotWeightTime         = 1
	spotWeightExchangeInfo = 20
	spotWeightKlines       = 2
)

// defaultSpotConfig provides default connection parameters for the spot venue.
var defaultSpotConfig = Config{
	BaseURL: "https://api.binance.com",
	Timeout: defaultTimeout,
}

// Spot is the MarketAPI connector for the Binance spot market.
type Spot struct {
	rest *restClient
}

// NewSpot creates a spot connector. A nil config selects the defaults.
func NewSpot(cfg *Config) (*Spot, error) {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}

	if err := validateConfig(&c, &defaultSpotConfig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Spot{rest: newRESTClient(c, spotLimits.MaxMinuteWeight)}, nil
}

// GetTimeAndWeight returns the spot server time (Unix ms) and the used
// weight reported on the same response.
func (s *Spot) GetTimeAndWeight(ctx context.Context) (int64, int, error) {
	resp, weight, err := getJSON[serverTimeResponse](ctx, s.rest, "/api/v3/time", nil, spotWeightTime)
	if err != nil {
		return 0, 0, err
	}
	return resp.ServerTime, weight, nil
}

// GetExchangeInfo returns the full raw spot symbol listing.
func (s *Spot) GetExchangeInfo(ctx context.Context) (*ExchangeInfoResponse, error) {
	resp, _, err := getJSON[ExchangeInfoResponse](ctx, s.rest, "/api/v3/exchangeInfo", nil, spotWeightExchangeInfo)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetKlines returns raw positional kline records for one symbol.
func (s *Spot) GetKlines(ctx context.Context, symbol, interval string, p KlineParams) ([]RawKline, error) {
	klines, _, err := getJSON[[]RawKline](ctx, s.rest, "/api/v3/klines", klineParams(symbol, interval, p), spotWeightKlines)
	return klines, err
}

// GetPremiumIndex fails: the spot market has no funding concept.
func (s *Spot) GetPremiumIndex(ctx context.Context) ([]PremiumIndexEntry, error) {
	return nil, ErrFundingNotSupported
}

// Limits returns the spot venue's static rate-limit figures.
func (s *Spot) Limits() APILimits {
	return spotLimits
}
