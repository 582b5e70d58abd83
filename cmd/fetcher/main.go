/*
Package main implements a command-line client for fetching Binance market data.

The tool binds a fetcher to one trading venue (spot, USDT-margined futures or
coin-margined futures) and prints the venue's request-weight budget, its
trading rules, a normalized candle series for each requested symbol and, for
futures venues, the current funding rates.

Usage:

	go run main.go -market=usdt_futures -symbols=BTCUSDT,ETHUSDT -interval=1h -limit=10 -funding

Endpoint base URLs can be overridden through the environment (or a .env
file): BINANCE_SPOT_URL, BINANCE_USDT_FUTURES_URL, BINANCE_COIN_FUTURES_URL.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"marketdata/internal/exchange"
	"marketdata/internal/fetcher"
	"marketdata/internal/model"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Command-line flags for configuring the fetch.
var (
	// market selects the trading venue to bind the fetcher to.
	market = flag.String("market", "spot", "Market type: spot, usdt_futures or coin_futures")
	// symbols contains the comma-separated list of symbols to fetch candles for.
	symbols = flag.String("symbols", "BTCUSDT", "Comma-separated list of symbols")
	// interval defines the candle interval tag.
	interval = flag.String("interval", "1h", "Candle interval tag (e.g. 1m, 1h, 1d)")
	// limit bounds the number of candles fetched per symbol.
	limit = flag.Int("limit", 10, "Maximum candles per symbol")
	// funding toggles fetching the funding-rate listing (futures venues only).
	funding = flag.Bool("funding", false, "Also fetch funding rates")
	// timeout bounds the whole run.
	timeout = flag.Duration("timeout", 30*time.Second, "Overall deadline for the run")
)

// baseURLEnvVars maps each market type to its endpoint override variable.
var baseURLEnvVars = map[model.MarketType]string{
	model.Spot:        "BINANCE_SPOT_URL",
	model.USDTFutures: "BINANCE_USDT_FUTURES_URL",
	model.CoinFutures: "BINANCE_COIN_FUTURES_URL",
}

// main is the entry point of the market-data client. It builds the venue
// connector and fetcher from the command-line configuration, performs the
// requested fetches and logs the results.
func main() {
	flag.Parse()

	// Initialize structured logger with timestamp and info level
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Ignore error so the tool still runs when .env is missing.
	_ = godotenv.Load()

	marketType, err := model.ParseMarketType(*market)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	symbolList := splitSymbols(*symbols)
	if len(symbolList) == 0 {
		log.Fatal().Msg("symbols list cannot be empty")
	}

	f, err := newFetcher(marketType)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create fetcher")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	run(ctx, f, marketType, symbolList)
}

// run performs the requested fetches against one venue-bound fetcher.
func run(ctx context.Context, f *fetcher.Fetcher, marketType model.MarketType, symbolList []string) {
	maxWeight, efficientCandles := f.GetAPILimits()
	log.Info().
		Str("market", marketType.String()).
		Int("max_minute_weight", maxWeight).
		Int("weight_efficient_candles", efficientCandles).
		Msg("venue weight budget")

	serverTime, usedWeight, err := f.GetTimeAndWeight(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch server time")
	}
	log.Info().
		Time("server_time", serverTime).
		Int("used_weight", usedWeight).
		Msg("server clock and weight usage")

	rules, err := f.GetExchangeInfo(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch exchange info")
	}
	log.Info().Int("symbols", len(rules)).Msg("trading rules parsed")

	for _, symbol := range symbolList {
		if rule, ok := rules[symbol]; ok {
			log.Info().
				Str("symbol", rule.Symbol).
				Str("status", rule.Status).
				Str("price_tick", rule.PriceTick.String()).
				Str("lot_size", rule.LotSize.String()).
				Str("min_notional", nullDecimalString(rule.MinNotional)).
				Msg("trading rule")
		}

		series, err := f.GetCandles(ctx, symbol, *interval, exchange.KlineParams{Limit: *limit})
		if err != nil {
			log.Fatal().Err(err).Str("symbol", symbol).Msg("failed to fetch candles")
		}

		for _, c := range series {
			log.Info().
				Str("symbol", symbol).
				Time("begin", c.BeginTime).
				Time("end", c.EndTime).
				Float64("open", c.Open).
				Float64("high", c.High).
				Float64("low", c.Low).
				Float64("close", c.Close).
				Float64("volume", c.Volume).
				Msg("candle")
		}
	}

	if *funding {
		rates, err := f.GetFundingRates(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to fetch funding rates")
		}
		for _, r := range rates {
			log.Info().Str("symbol", r.Symbol).Float64("rate", r.Rate).Msg("funding rate")
		}
	}
}

// newFetcher builds the venue connector and binds the fetcher to it,
// applying any endpoint override from the environment.
func newFetcher(marketType model.MarketType) (*fetcher.Fetcher, error) {
	var cfg *exchange.Config
	if baseURL := os.Getenv(baseURLEnvVars[marketType]); baseURL != "" {
		cfg = &exchange.Config{BaseURL: baseURL}
	}

	api, err := exchange.New(marketType, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s connector: %w", marketType, err)
	}

	return fetcher.New(marketType, api)
}

// splitSymbols splits the comma-separated symbol list, dropping empties.
func splitSymbols(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// nullDecimalString renders an optional decimal, using "-" for venues that
// do not publish a minimum notional.
func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}
