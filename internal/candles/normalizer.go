// Package candles converts raw exchange kline payloads into normalized,
// time-sorted candle series.
//
// The exchange encodes each kline as a fixed-width positional array mixing
// JSON numbers and numeric strings. Normalization binds the positions to
// named fields, coerces every value to its canonical type, sorts the series
// ascending by bar open time and derives the close boundary from the
// interval tag. The whole package is a pure transform over an
// already-fetched payload: no I/O, no retry.
package candles

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"marketdata/internal/exchange"
	"marketdata/internal/model"
	"marketdata/internal/utils"
)

// Positions of the exchange kline fields. closeTime and the trailing
// "ignore" marker carry nothing that is not already derivable from the
// open time plus the interval, so both are dropped during normalization.
const (
	idxBeginTime = iota
	idxOpen
	idxHigh
	idxLow
	idxClose
	idxVolume
	idxCloseTime // dropped
	idxQuoteVolume
	idxTradeNum
	idxTakerBuyBaseVolume
	idxTakerBuyQuoteVolume
	idxIgnore // dropped

	// minKlineFields is the shortest row that still carries every kept field.
	minKlineFields = idxTakerBuyQuoteVolume + 1
)

// Normalize converts raw positional kline records into the canonical
// candle series for the given interval tag.
//
// The output is sorted ascending by bar open time regardless of input
// order: payloads are normally time-ordered already, but the venue does
// not guarantee it across pagination boundaries, and downstream windowing
// logic depends on the ordering. Duplicate open times are preserved as-is.
// Each row's EndTime is the open time plus the interval duration.
//
// A malformed row or an unrecognized interval tag fails the whole call;
// a candle series with a guessed field is unsafe to trade on.
func Normalize(klines []exchange.RawKline, interval string) ([]model.Candle, error) {
	delta, err := utils.IntervalDuration(interval)
	if err != nil {
		return nil, err
	}

	out := make([]model.Candle, 0, len(klines))
	for i, row := range klines {
		candle, err := normalizeRow(row)
		if err != nil {
			return nil, fmt.Errorf("kline row %d: %w", i, err)
		}
		out = append(out, candle)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BeginTime.Before(out[j].BeginTime)
	})

	for i := range out {
		out[i].EndTime = out[i].BeginTime.Add(delta)
	}

	return out, nil
}

// normalizeRow binds one positional record to named, typed fields.
// EndTime is left for the caller, which owns the interval duration.
func normalizeRow(row exchange.RawKline) (model.Candle, error) {
	if len(row) < minKlineFields {
		return model.Candle{}, fmt.Errorf("expected at least %d fields, got %d", minKlineFields, len(row))
	}

	beginMS, err := toInt64(row[idxBeginTime])
	if err != nil {
		return model.Candle{}, fmt.Errorf("begin time: %w", err)
	}

	tradeNum, err := toInt64(row[idxTradeNum])
	if err != nil {
		return model.Candle{}, fmt.Errorf("trade num: %w", err)
	}

	candle := model.Candle{
		BeginTime: time.UnixMilli(beginMS).UTC(),
		TradeNum:  tradeNum,
	}

	for _, field := range []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"open", idxOpen, &candle.Open},
		{"high", idxHigh, &candle.High},
		{"low", idxLow, &candle.Low},
		{"close", idxClose, &candle.Close},
		{"volume", idxVolume, &candle.Volume},
		{"quote volume", idxQuoteVolume, &candle.QuoteVolume},
		{"taker buy base volume", idxTakerBuyBaseVolume, &candle.TakerBuyBaseVolume},
		{"taker buy quote volume", idxTakerBuyQuoteVolume, &candle.TakerBuyQuoteVolume},
	} {
		v, err := toFloat(row[field.idx])
		if err != nil {
			return model.Candle{}, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = v
	}

	return candle, nil
}

// toFloat coerces an exchange kline value to float64. Prices and volumes
// arrive as numeric strings; numbers are accepted too for symmetry.
func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseFloat(t, 64)
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to float", v)
	}
}

// toInt64 coerces an exchange kline value to int64. Timestamps and trade
// counts arrive as JSON numbers, which decode as float64; millisecond
// epochs stay well inside float64's exact-integer range.
func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("cannot coerce %T to int", v)
	}
}
