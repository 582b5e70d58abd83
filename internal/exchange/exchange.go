// Package exchange provides REST market-data connectors for the Binance
// trading venues.
//
// Each venue (spot, USDT-margined futures, coin-margined futures) exposes
// the same four public endpoints under a different host and path prefix:
// server time, exchange info, klines and premium index. The connectors
// normalize nothing; they return raw payloads typed just enough for the
// fetcher layer to parse, and they account for the exchange's
// request-weight budget so callers can pace themselves.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketdata/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidConfig indicates that the provided Config contains invalid values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFundingNotSupported indicates a funding-rate request against a venue
	// with no funding concept (the spot market).
	ErrFundingNotSupported = errors.New("funding rate not supported for spot market")
)

// APILimits carries the static rate-limit figures for one venue.
type APILimits struct {
	// MaxMinuteWeight is the maximum request weight allowed per rolling minute.
	MaxMinuteWeight int

	// WeightEfficientOnceCandles is the number of candles per request at the
	// best candles-per-weight ratio for the venue's kline weight tiers.
	WeightEfficientOnceCandles int
}

// KlineParams holds optional request parameters for a kline fetch.
// Zero values are omitted from the request, which makes the exchange return
// the most recent klines at its default page size.
type KlineParams struct {
	Limit     int   // Maximum number of klines to return
	StartTime int64 // Bar open time lower bound (Unix ms)
	EndTime   int64 // Bar open time upper bound (Unix ms)
}

// RawKline is one positional kline record exactly as the exchange encodes
// it: a fixed-width JSON array mixing numbers and numeric strings.
type RawKline []any

// ExchangeInfoResponse is the raw symbol listing of one venue.
type ExchangeInfoResponse struct {
	Symbols []SymbolInfo `json:"symbols"`
}

// SymbolInfo is one raw symbol-metadata record.
//
// The struct carries the union of the three venue schemas: spot reports
// trading status under "status" while coin-margined futures use
// "contractStatus", and only coin-margined futures publish a fixed
// "contractSize" instead of a lot-size filter. Fields absent from a
// venue's payload simply stay zero.
type SymbolInfo struct {
	Symbol         string           `json:"symbol" validate:"required"`
	Status         string           `json:"status"`
	ContractStatus string           `json:"contractStatus"`
	ContractType   string           `json:"contractType"`
	BaseAsset      string           `json:"baseAsset" validate:"required"`
	QuoteAsset     string           `json:"quoteAsset" validate:"required"`
	MarginAsset    string           `json:"marginAsset"`
	ContractSize   *decimal.Decimal `json:"contractSize"`
	Filters        []Filter         `json:"filters"`
}

// Filter is one entry of a symbol's trading-rule filter list. Only the
// fields read by the trading-rule parsers are declared; each filter type
// populates its own subset.
type Filter struct {
	FilterType  string `json:"filterType"`
	TickSize    string `json:"tickSize,omitempty"`    // PRICE_FILTER
	StepSize    string `json:"stepSize,omitempty"`    // LOT_SIZE
	Notional    string `json:"notional,omitempty"`    // MIN_NOTIONAL (futures)
	MinNotional string `json:"minNotional,omitempty"` // NOTIONAL (spot)
}

// PremiumIndexEntry is one raw per-symbol funding listing entry.
//
// LastFundingRate is kept as a string: venues return non-numeric
// placeholders for symbols without funding history, and the decision how
// to degrade belongs to the extraction layer.
type PremiumIndexEntry struct {
	Symbol          string `json:"symbol" validate:"required"`
	LastFundingRate string `json:"lastFundingRate"`
}

// MarketAPI is the transport contract one venue connector fulfills.
//
// All methods issue at most one HTTP request and never retry; retrying is
// the caller's policy. Limits performs no network call.
type MarketAPI interface {
	// GetTimeAndWeight returns the venue's server time in Unix milliseconds
	// together with the request weight consumed in the current minute, as
	// reported by the exchange on this very response.
	GetTimeAndWeight(ctx context.Context) (serverTimeMS int64, weightUsed int, err error)

	// GetExchangeInfo returns the venue's full raw symbol listing.
	GetExchangeInfo(ctx context.Context) (*ExchangeInfoResponse, error)

	// GetKlines returns raw positional kline records for one symbol and
	// interval tag, most recent last unless KlineParams narrows the range.
	GetKlines(ctx context.Context, symbol, interval string, p KlineParams) ([]RawKline, error)

	// GetPremiumIndex returns the venue's per-symbol funding listing.
	// The spot connector fails with ErrFundingNotSupported without issuing
	// a request.
	GetPremiumIndex(ctx context.Context) ([]PremiumIndexEntry, error)

	// Limits returns the venue's static rate-limit figures.
	Limits() APILimits
}

// Config provides common configuration parameters for all venue connectors.
type Config struct {
	// BaseURL is the REST endpoint base for the venue API.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// validateConfig ensures all required configuration fields are present and
// valid, applying the venue defaults for optional fields when possible.
func validateConfig(cfg *Config, defaultCfg *Config) error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCfg.BaseURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCfg.Timeout
	}

	return nil
}

// New creates the connector matching the given market type.
//
// Passing a nil config selects the venue defaults. An unrecognized market
// type is a configuration error and fails before any network activity.
func New(marketType model.MarketType, cfg *Config) (MarketAPI, error) {
	switch marketType {
	case model.Spot:
		return NewSpot(cfg)
	case model.USDTFutures:
		return NewUSDTFutures(cfg)
	case model.CoinFutures:
		return NewCoinFutures(cfg)
	}
	return nil, fmt.Errorf("unsupported market type %q", marketType)
}
