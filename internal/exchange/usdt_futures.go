// Package exchange provides REST market-data connectors for the Binance
// trading venues.
//
// The USDTFutures connector serves the USDT-margined futures REST API
// under /fapi/v1.
package exchange

import (
	"context"
	"fmt"
)

// usdtFuturesLimits holds the USDT-margined venue's static rate-limit
// figures. Futures kline weight is tiered by page size; 499 candles per
// request sits at the best candles-per-weight ratio (weight 2).
var usdtFuturesLimits = APILimits{
	MaxMinuteWeight:            2400,
	WeightEfficientOnceCandles: 499,
}

// Endpoint weight costs for the USDT-margined futures venue.
const (
	futuresWeightTime         = 1
	futuresWeightExchangeInfo = 1
	futuresWeightPremiumIndex = 10
)

// futuresKlinesWeight returns the tiered kline weight cost for the given
// page size (futures venues share the same tiers).
func futuresKlinesWeight(limit int) int {
	switch {
	case limit > 0 && limit < 100:
		return 1
	case limit < 500:
		return 2
	case limit <= 1000:
		return 5
	default:
		return 10
	}
}

// defaultUSDTFuturesConfig provides default connection parameters for the
// USDT-margined futures venue.
var defaultUSDTFuturesConfig = Config{
	BaseURL: "https://fapi.binance.com",
	Timeout: defaultTimeout,
}

// USDTFutures is the MarketAPI connector for USDT-margined futures.
type USDTFutures struct {
	rest *restClient
}

// NewUSDTFutures creates a USDT-margined futures connector. A nil config
// selects the defaults.
func NewUSDTFutures(cfg *Config) (*USDTFutures, error) {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}

	if err := validateConfig(&c, &defaultUSDTFuturesConfig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &USDTFutures{rest: newRESTClient(c, usdtFuturesLimits.MaxMinuteWeight)}, nil
}

// GetTimeAndWeight returns the venue server time (Unix ms) and the used
// weight reported on the same response.
func (u *USDTFutures) GetTimeAndWeight(ctx context.Context) (int64, int, error) {
	resp, weight, err := getJSON[serverTimeResponse](ctx, u.rest, "/fapi/v1/time", nil, futuresWeightTime)
	if err != nil {
		return 0, 0, err
	}
	return resp.ServerTime, weight, nil
}

// GetExchangeInfo returns the full raw symbol listing.
func (u *USDTFutures) GetExchangeInfo(ctx context.Context) (*ExchangeInfoResponse, error) {
	resp, _, err := getJSON[ExchangeInfoResponse](ctx, u.rest, "/fapi/v1/exchangeInfo", nil, futuresWeightExchangeInfo)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetKlines returns raw positional kline records for one symbol.
func (u *USDTFutures) GetKlines(ctx context.Context, symbol, interval string, p KlineParams) ([]RawKline, error) {
	klines, _, err := getJSON[[]RawKline](ctx, u.rest, "/fapi/v1/klines",
		klineParams(symbol, interval, p), futuresKlinesWeight(p.Limit))
	return klines, err
}

// GetPremiumIndex returns the funding listing for every symbol.
func (u *USDTFutures) GetPremiumIndex(ctx context.Context) ([]PremiumIndexEntry, error) {
	entries, _, err := getJSON[[]PremiumIndexEntry](ctx, u.rest, "/fapi/v1/premiumIndex", nil, futuresWeightPremiumIndex)
	return entries, err
}

// Limits returns the venue's static rate-limit figures.
func (u *USDTFutures) Limits() APILimits {
	return usdtFuturesLimits
}
