// Package fetcher provides the market-data facade bound to one Binance
// trading venue.
//
// This file contains the trading-rule parsers, one pure function per venue
// schema. The three venues encode the same semantic fields under different
// names and filter structures:
//
//   - trading status lives in "status" (spot, USDT futures) or
//     "contractStatus" (coin futures);
//   - minimum notional comes from the NOTIONAL filter's "minNotional"
//     (spot), the MIN_NOTIONAL filter's "notional" (USDT futures), or is
//     absent entirely (coin futures, which size orders in contracts);
//   - lot size comes from the LOT_SIZE filter's "stepSize" (spot, USDT
//     futures) or the fixed "contractSize" field (coin futures).
//
// A missing filter or field is a schema error: a guessed price tick or lot
// size would silently gate order validity downstream, so parsing fails
// loudly instead of defaulting.
package fetcher

import (
	"fmt"

	"marketdata/internal/exchange"
	"marketdata/internal/model"

	"github.com/shopspring/decimal"
)

// parseFunc maps one raw symbol-info record to one canonical trading rule.
type parseFunc func(info exchange.SymbolInfo) (model.TradingRule, error)

// symbolParsers is the strategy table keyed by venue; the fetcher resolves
// its entry once, at construction.
var symbolParsers = map[model.MarketType]parseFunc{
	model.Spot:        parseSpotSymbolInfo,
	model.USDTFutures: parseUSDTFuturesSymbolInfo,
	model.CoinFutures: parseCoinFuturesSymbolInfo,
}

// fromFilters locates the filter entry of the given type and returns the
// value the accessor reads from it. A missing entry or an empty field is a
// malformed venue payload and yields an error naming the gap.
func fromFilters(info exchange.SymbolInfo, filterType, fieldName string, get func(exchange.Filter) string) (string, error) {
	for _, f := range info.Filters {
		if f.FilterType != filterType {
			continue
		}
		v := get(f)
		if v == "" {
			return "", fmt.Errorf("symbol %s: filter %s is missing field %s", info.Symbol, filterType, fieldName)
		}
		return v, nil
	}
	return "", fmt.Errorf("symbol %s: filter %s not found", info.Symbol, filterType)
}

// filterDecimal reads a filter field and parses it as an exact decimal.
func filterDecimal(info exchange.SymbolInfo, filterType, fieldName string, get func(exchange.Filter) string) (decimal.Decimal, error) {
	raw, err := fromFilters(info, filterType, fieldName, get)
	if err != nil {
		return decimal.Decimal{}, err
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("symbol %s: filter %s field %s: %w", info.Symbol, filterType, fieldName, err)
	}
	return d, nil
}

// positiveFilterDecimal additionally enforces strict positivity, the
// invariant every price tick and lot size must satisfy.
func positiveFilterDecimal(info exchange.SymbolInfo, filterType, fieldName string, get func(exchange.Filter) string) (decimal.Decimal, error) {
	d, err := filterDecimal(info, filterType, fieldName, get)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("symbol %s: filter %s field %s must be positive, got %s",
			info.Symbol, filterType, fieldName, d)
	}
	return d, nil
}

// priceTick reads the PRICE_FILTER tick size, shared by all three venues.
func priceTick(info exchange.SymbolInfo) (decimal.Decimal, error) {
	return positiveFilterDecimal(info, "PRICE_FILTER", "tickSize",
		func(f exchange.Filter) string { return f.TickSize })
}

// stepLotSize reads the LOT_SIZE step size used by the venues that express
// quantity increments directly.
func stepLotSize(info exchange.SymbolInfo) (decimal.Decimal, error) {
	return positiveFilterDecimal(info, "LOT_SIZE", "stepSize",
		func(f exchange.Filter) string { return f.StepSize })
}

// parseSpotSymbolInfo extracts a trading rule from a spot symbol record.
// Spot symbols have no contract or margin asset, and the minimum notional
// lives in the NOTIONAL filter.
func parseSpotSymbolInfo(info exchange.SymbolInfo) (model.TradingRule, error) {
	tick, err := priceTick(info)
	if err != nil {
		return model.TradingRule{}, err
	}

	lot, err := stepLotSize(info)
	if err != nil {
		return model.TradingRule{}, err
	}

	minNotional, err := filterDecimal(info, "NOTIONAL", "minNotional",
		func(f exchange.Filter) string { return f.MinNotional })
	if err != nil {
		return model.TradingRule{}, err
	}

	return model.TradingRule{
		Symbol:      info.Symbol,
		Status:      info.Status,
		BaseAsset:   info.BaseAsset,
		QuoteAsset:  info.QuoteAsset,
		PriceTick:   tick,
		LotSize:     lot,
		MinNotional: decimal.NullDecimal{Decimal: minNotional, Valid: true},
	}, nil
}

// parseUSDTFuturesSymbolInfo extracts a trading rule from a USDT-margined
// futures symbol record. The minimum notional lives in the MIN_NOTIONAL
// filter under a different field name than spot's.
func parseUSDTFuturesSymbolInfo(info exchange.SymbolInfo) (model.TradingRule, error) {
	tick, err := priceTick(info)
	if err != nil {
		return model.TradingRule{}, err
	}

	lot, err := stepLotSize(info)
	if err != nil {
		return model.TradingRule{}, err
	}

	minNotional, err := filterDecimal(info, "MIN_NOTIONAL", "notional",
		func(f exchange.Filter) string { return f.Notional })
	if err != nil {
		return model.TradingRule{}, err
	}

	return model.TradingRule{
		Symbol:       info.Symbol,
		ContractType: info.ContractType,
		Status:       info.Status,
		BaseAsset:    info.BaseAsset,
		QuoteAsset:   info.QuoteAsset,
		MarginAsset:  info.MarginAsset,
		PriceTick:    tick,
		LotSize:      lot,
		MinNotional:  decimal.NullDecimal{Decimal: minNotional, Valid: true},
	}, nil
}

// parseCoinFuturesSymbolInfo extracts a trading rule from a coin-margined
// futures symbol record. Trading status is reported as contractStatus, the
// quantity increment is the fixed contract size, and there is no minimum
// notional: the venue sizes orders in contracts, not quote currency.
func parseCoinFuturesSymbolInfo(info exchange.SymbolInfo) (model.TradingRule, error) {
	tick, err := priceTick(info)
	if err != nil {
		return model.TradingRule{}, err
	}

	if info.ContractSize == nil {
		return model.TradingRule{}, fmt.Errorf("symbol %s: missing contractSize", info.Symbol)
	}
	if !info.ContractSize.IsPositive() {
		return model.TradingRule{}, fmt.Errorf("symbol %s: contractSize must be positive, got %s",
			info.Symbol, info.ContractSize)
	}

	return model.TradingRule{
		Symbol:       info.Symbol,
		ContractType: info.ContractType,
		Status:       info.ContractStatus,
		BaseAsset:    info.BaseAsset,
		QuoteAsset:   info.QuoteAsset,
		MarginAsset:  info.MarginAsset,
		PriceTick:    tick,
		LotSize:      *info.ContractSize,
	}, nil
}
