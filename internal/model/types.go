// Package model defines core data types for the market data fetcher.
//
// This package contains the canonical representations produced by the
// fetcher: trading rules, candlesticks and funding rates. Order-gating
// values (price tick, lot size, minimum notional) use decimal.Decimal for
// exact arithmetic, since they feed order-validity comparisons downstream.
// Analytic candle values (OHLCV) use float64.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MarketType identifies one of the Binance trading venues.
//
// Each venue publishes symbol metadata under its own schema, so the market
// type selects both the REST endpoints and the trading-rule parser variant.
type MarketType int

const (
	// Spot represents the Binance spot market.
	Spot MarketType = iota

	// USDTFutures represents the USDT-margined futures market.
	USDTFutures

	// CoinFutures represents the coin-margined futures market.
	CoinFutures
)

// marketTypeNames maps MarketType values to their canonical string tags.
var marketTypeNames = map[MarketType]string{
	Spot:        "spot",
	USDTFutures: "usdt_futures",
	CoinFutures: "coin_futures",
}

// String returns the canonical tag for the market type ("spot",
// "usdt_futures", "coin_futures").
func (mt MarketType) String() string {
	if name, ok := marketTypeNames[mt]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(mt))
}

// ParseMarketType converts a market-type tag into a MarketType.
//
// Recognized tags are "spot", "usdt_futures" and "coin_futures"
// (case-insensitive). Unknown tags yield an error; an unsupported venue is
// a configuration error and must fail before any network activity.
func ParseMarketType(s string) (MarketType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spot":
		return Spot, nil
	case "usdt_futures":
		return USDTFutures, nil
	case "coin_futures":
		return CoinFutures, nil
	}
	return 0, fmt.Errorf("unsupported market type %q", s)
}

// TradingRule holds the exchange-enforced constraints for one symbol.
//
// A rule is constructed fresh on every metadata fetch, carries no identity
// beyond its symbol string and is superseded wholesale by the next fetch.
//
// PriceTick and LotSize are always present and strictly positive.
// MinNotional is valid iff the venue expresses order size directly in the
// quote currency (spot, USDT-margined futures); coin-margined futures size
// orders in contracts and never publish one.
type TradingRule struct {
	Symbol       string              // Exchange-unique symbol (e.g. "BTCUSDT")
	ContractType string              // Contract type, empty for spot
	Status       string              // Raw venue trading status (e.g. "TRADING")
	BaseAsset    string              // Base asset (e.g. "BTC")
	QuoteAsset   string              // Quote asset (e.g. "USDT")
	MarginAsset  string              // Margin asset, empty for spot
	PriceTick    decimal.Decimal     // Minimum price increment (exact decimal)
	LotSize      decimal.Decimal     // Minimum quantity increment, or contract size for coin futures
	MinNotional  decimal.NullDecimal // Minimum order value in quote currency, invalid for coin futures
}

// Candle represents one normalized OHLCV bar.
//
// BeginTime is the exchange's bar-open instant truncated to millisecond
// granularity, in UTC. EndTime is derived as BeginTime plus the interval
// duration and marks the instant at which the bar's data became final;
// callers align candles on it.
type Candle struct {
	BeginTime           time.Time // Bar open time (UTC, ms granularity)
	EndTime             time.Time // BeginTime + interval duration (derived)
	Open                float64   // Opening price
	High                float64   // Highest price in the bar
	Low                 float64   // Lowest price in the bar
	Close               float64   // Closing price
	Volume              float64   // Base asset volume
	QuoteVolume         float64   // Quote asset volume
	TradeNum            int64     // Number of trades in the bar
	TakerBuyBaseVolume  float64   // Taker buy base asset volume
	TakerBuyQuoteVolume float64   // Taker buy quote asset volume
}

// FundingRate holds the last funding rate reported for one perpetual symbol.
//
// Rate is NaN when the venue published a non-numeric placeholder (symbols
// with no funding history return e.g. "-"); a single symbol's data quality
// never fails the batch it arrived in. Use math.IsNaN to detect the
// missing sentinel.
type FundingRate struct {
	Symbol string  // Exchange-unique symbol
	Rate   float64 // Last funding rate, NaN when missing
}
