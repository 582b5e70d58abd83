// Package exchange provides REST market-data connectors for the Binance
// trading venues.
//
// The CoinFutures connector serves the coin-margined futures REST API
// under /dapi/v1. Coin-margined symbols size orders in contracts, which
// shows up downstream as a contractSize field instead of a lot-size
// filter; at this layer the payloads are passed through untouched.
package exchange

import (
	"context"
	"fmt"
)

// coinFuturesLimits holds the coin-margined venue's static rate-limit
// figures; the kline weight tiers match the USDT-margined venue.
var coinFuturesLimits = APILimits{
	MaxMinuteWeight:            2400,
	WeightEfficientOnceCandles: 499,
}

// defaultCoinFuturesConfig provides default connection parameters for the
// coin-margined futures venue.
var defaultCoinFuturesConfig = Config{
	BaseURL: "https://dapi.binance.com",
	Timeout: defaultTimeout,
}

// CoinFutures is the MarketAPI connector for coin-margined futures.
type CoinFutures struct {
	rest *restClient
}

// NewCoinFutures creates a coin-margined futures connector. A nil config
// selects the defaults.
func NewCoinFutures(cfg *Config) (*CoinFutures, error) {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}

	if err := validateConfig(&c, &defaultCoinFuturesConfig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &CoinFutures{rest: newRESTClient(c, coinFuturesLimits.MaxMinuteWeight)}, nil
}

// GetTimeAndWeight returns the venue server time (Unix ms) and the used
// weight reported on the same response.
func (c *CoinFutures) GetTimeAndWeight(ctx context.Context) (int64, int, error) {
	resp, weight, err := getJSON[serverTimeResponse](ctx, c.rest, "/dapi/v1/time", nil, futuresWeightTime)
	if err != nil {
		return 0, 0, err
	}
	return resp.ServerTime, weight, nil
}

// GetExchangeInfo returns the full raw symbol listing.
func (c *CoinFutures) GetExchangeInfo(ctx context.Context) (*ExchangeInfoResponse, error) {
	resp, _, err := getJSON[ExchangeInfoResponse](ctx, c.rest, "/dapi/v1/exchangeInfo", nil, futuresWeightExchangeInfo)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetKlines returns raw positional kline records for one symbol.
func (c *CoinFutures) GetKlines(ctx context.Context, symbol, interval string, p KlineParams) ([]RawKline, error) {
	klines, _, err := getJSON[[]RawKline](ctx, c.rest, "/dapi/v1/klines",
		klineParams(symbol, interval, p), futuresKlinesWeight(p.Limit))
	return klines, err
}

// GetPremiumIndex returns the funding listing for every symbol.
func (c *CoinFutures) GetPremiumIndex(ctx context.Context) ([]PremiumIndexEntry, error) {
	entries, _, err := getJSON[[]PremiumIndexEntry](ctx, c.rest, "/dapi/v1/premiumIndex", nil, futuresWeightPremiumIndex)
	return entries, err
}

// Limits returns the venue's static rate-limit figures.
func (c *CoinFutures) Limits() APILimits {
	return coinFuturesLimits
}
