// Package fetcher provides the market-data facade bound to one Binance
// trading venue.
//
// A Fetcher couples a venue transport with the trading-rule parser variant
// matching that venue's symbol-metadata schema. Variant selection happens
// once, at construction; every public operation then runs the same
// pipeline: transport call (retried where the operation is idempotent),
// raw payload, normalization, canonical result.
//
// A Fetcher holds only immutable configuration, so callers may issue any
// number of operations concurrently on one instance without coordination.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"marketdata/internal/candles"
	"marketdata/internal/exchange"
	"marketdata/internal/model"
	"marketdata/internal/utils"

	"github.com/go-playground/validator/v10"
)

// ErrFundingNotSupported mirrors the transport-level sentinel for callers
// that only import this package.
var ErrFundingNotSupported = exchange.ErrFundingNotSupported

// Option customizes a Fetcher at construction time.
type Option func(*Fetcher)

// WithRetry overrides the retry policy applied to idempotent remote calls
// (exchange info and klines).
func WithRetry(cfg utils.RetryConfig) Option {
	return func(f *Fetcher) { f.retryCfg = cfg }
}

// WithFundingRetry toggles retrying of the funding-rate fetch, which is
// disabled by default: funding rates move on a fixed schedule and a stale
// fetch is better skipped than delayed.
func WithFundingRetry(enabled bool) Option {
	return func(f *Fetcher) { f.retryFunding = enabled }
}

// Fetcher is the market-data facade for one trading venue.
type Fetcher struct {
	marketType   model.MarketType
	api          exchange.MarketAPI
	parseSymbol  parseFunc
	validate     *validator.Validate
	retryCfg     utils.RetryConfig
	retryFunding bool
}

// New creates a Fetcher bound to the given venue and transport.
//
// The trading-rule parser variant is resolved from the market type here,
// not per call. An unsupported market type is a configuration error and
// fails before any network activity.
func New(marketType model.MarketType, api exchange.MarketAPI, opts ...Option) (*Fetcher, error) {
	parse, ok := symbolParsers[marketType]
	if !ok {
		return nil, fmt.Errorf("unsupported market type %q", marketType)
	}

	f := &Fetcher{
		marketType:  marketType,
		api:         api,
		parseSymbol: parse,
		validate:    validator.New(),
		retryCfg:    utils.DefaultRetryConfig,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// GetAPILimits returns the venue's maximum request weight per rolling
// minute and the candle count of one maximally weight-efficient kline
// request. Static figures; no network call.
func (f *Fetcher) GetAPILimits() (maxMinuteWeight, weightEfficientOnceCandles int) {
	limits := f.api.Limits()
	return limits.MaxMinuteWeight, limits.WeightEfficientOnceCandles
}

// GetTimeAndWeight returns the venue's server time as a UTC instant and
// the request weight consumed in the current minute.
//
// The call is deliberately not retried: it feeds clock synchronization and
// self-throttling, where a stale answer after backoff delays would defeat
// the purpose.
func (f *Fetcher) GetTimeAndWeight(ctx context.Context) (time.Time, int, error) {
	serverTimeMS, weight, err := f.api.GetTimeAndWeight(ctx)
	if err != nil {
		return time.Time{}, 0, err
	}
	return time.UnixMilli(serverTimeMS).UTC(), weight, nil
}

// GetExchangeInfo fetches the venue's full symbol listing and parses every
// entry into a trading rule, keyed by symbol.
//
// Listing the symbol universe is idempotent, so the transport call is
// wrapped in the retry policy. Parsing happens outside the retried
// operation: a schema error cannot be fixed by repeating the request.
func (f *Fetcher) GetExchangeInfo(ctx context.Context) (map[string]model.TradingRule, error) {
	info, err := utils.Retry(ctx, f.retryCfg, func() (*exchange.ExchangeInfoResponse, error) {
		return f.api.GetExchangeInfo(ctx)
	})
	if err != nil {
		return nil, err
	}

	rules := make(map[string]model.TradingRule, len(info.Symbols))
	for _, symInfo := range info.Symbols {
		if err := f.validate.Struct(&symInfo); err != nil {
			return nil, fmt.Errorf("symbol info for %q: %w", symInfo.Symbol, err)
		}

		rule, err := f.parseSymbol(symInfo)
		if err != nil {
			return nil, err
		}
		rules[rule.Symbol] = rule
	}

	return rules, nil
}

// GetCandles fetches klines for one symbol and interval and normalizes
// them into a sorted candle series. The transport call is retried; the
// normalization is pure and runs once on the fetched payload.
func (f *Fetcher) GetCandles(ctx context.Context, symbol, interval string, p exchange.KlineParams) ([]model.Candle, error) {
	klines, err := utils.Retry(ctx, f.retryCfg, func() ([]exchange.RawKline, error) {
		return f.api.GetKlines(ctx, symbol, interval, p)
	})
	if err != nil {
		return nil, err
	}

	return candles.Normalize(klines, interval)
}

// GetFundingRates fetches the venue's funding listing and extracts one row
// per symbol, in venue order.
//
// Calling this on a spot-bound fetcher is a programming error: it fails
// immediately with ErrFundingNotSupported, before any transport activity.
// The fetch is un-retried by default; see WithFundingRetry.
func (f *Fetcher) GetFundingRates(ctx context.Context) ([]model.FundingRate, error) {
	if f.marketType == model.Spot {
		return nil, ErrFundingNotSupported
	}

	var (
		entries []exchange.PremiumIndexEntry
		err     error
	)
	if f.retryFunding {
		entries, err = utils.Retry(ctx, f.retryCfg, func() ([]exchange.PremiumIndexEntry, error) {
			return f.api.GetPremiumIndex(ctx)
		})
	} else {
		entries, err = f.api.GetPremiumIndex(ctx)
	}
	if err != nil {
		return nil, err
	}

	return f.extractFundingRates(entries)
}
