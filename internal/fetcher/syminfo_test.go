package fetcher

import (
	"testing"

	"marketdata/internal/exchange"
	"marketdata/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decimalPtr is a small helper for optional decimal fields in raw records.
func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// usdtFuturesSymbolInfo builds a realistic USDT-margined futures record.
func usdtFuturesSymbolInfo() exchange.SymbolInfo {
	return exchange.SymbolInfo{
		Symbol:       "BTCUSDT",
		Status:       "TRADING",
		ContractType: "PERPETUAL",
		BaseAsset:    "BTC",
		QuoteAsset:   "USDT",
		MarginAsset:  "USDT",
		Filters: []exchange.Filter{
			{FilterType: "PRICE_FILTER", TickSize: "0.10"},
			{FilterType: "LOT_SIZE", StepSize: "0.001"},
			{FilterType: "MIN_NOTIONAL", Notional: "5"},
		},
	}
}

// Test_parseUSDTFuturesSymbolInfo checks a typical perpetual record: a PRICE_FILTER
// tickSize of "0.10", a LOT_SIZE stepSize of "0.001" and a MIN_NOTIONAL
// notional of "5"
func Test_parseUSDTFuturesSymbolInfo(t *testing.T) {
	rule, err := parseUSDTFuturesSymbolInfo(usdtFuturesSymbolInfo())
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", rule.Symbol)
	assert.Equal(t, "PERPETUAL", rule.ContractType, "Contract type should be copied verbatim")
	assert.Equal(t, "TRADING", rule.Status)
	assert.Equal(t, "BTC", rule.BaseAsset)
	assert.Equal(t, "USDT", rule.QuoteAsset)
	assert.Equal(t, "USDT", rule.MarginAsset, "Margin asset should be copied verbatim")
	assert.True(t, rule.PriceTick.Equal(decimal.RequireFromString("0.10")), "price_tick should be 0.10")
	assert.True(t, rule.LotSize.Equal(decimal.RequireFromString("0.001")), "lot_size should be 0.001")
	require.True(t, rule.MinNotional.Valid, "USDT futures must carry a minimum notional")
	assert.True(t, rule.MinNotional.Decimal.Equal(decimal.NewFromInt(5)), "min_notional_value should be 5")
}

// Test_parseSpotSymbolInfo tests the spot schema variant
func Test_parseSpotSymbolInfo(t *testing.T) {
	rule, err := parseSpotSymbolInfo(exchange.SymbolInfo{
		Symbol:     "ETHUSDT",
		Status:     "TRADING",
		BaseAsset:  "ETH",
		QuoteAsset: "USDT",
		Filters: []exchange.Filter{
			{FilterType: "PRICE_FILTER", TickSize: "0.01"},
			{FilterType: "LOT_SIZE", StepSize: "0.0001"},
			{FilterType: "NOTIONAL", MinNotional: "10"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", rule.Symbol)
	assert.Empty(t, rule.ContractType, "Spot symbols have no contract type")
	assert.Empty(t, rule.MarginAsset, "Spot symbols have no margin asset")
	assert.True(t, rule.PriceTick.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, rule.LotSize.Equal(decimal.RequireFromString("0.0001")))
	require.True(t, rule.MinNotional.Valid, "Spot must carry a minimum notional")
	assert.True(t, rule.MinNotional.Decimal.Equal(decimal.NewFromInt(10)))
}

// Test_parseCoinFuturesSymbolInfo tests the coin-margined schema variant
func Test_parseCoinFuturesSymbolInfo(t *testing.T) {
	rule, err := parseCoinFuturesSymbolInfo(exchange.SymbolInfo{
		Symbol:         "BTCUSD_PERP",
		ContractStatus: "TRADING",
		ContractType:   "PERPETUAL",
		BaseAsset:      "BTC",
		QuoteAsset:     "USD",
		MarginAsset:    "BTC",
		ContractSize:   decimalPtr("100"),
		Filters: []exchange.Filter{
			{FilterType: "PRICE_FILTER", TickSize: "0.1"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "BTCUSD_PERP", rule.Symbol)
	assert.Equal(t, "TRADING", rule.Status, "Status comes from contractStatus on this venue")
	assert.True(t, rule.LotSize.Equal(decimal.NewFromInt(100)), "Lot size is the fixed contract size")
	assert.False(t, rule.MinNotional.Valid,
		"Coin futures express size in contracts and omit min notional by design")
}

// Test_symbolParsers_Invariants verifies price_tick > 0 and lot_size > 0
// across all three variants, with min notional present iff the venue
// expresses size in the quote currency
func Test_symbolParsers_Invariants(t *testing.T) {
	records := map[model.MarketType]exchange.SymbolInfo{
		model.Spot: {
			Symbol: "ETHUSDT", Status: "TRADING", BaseAsset: "ETH", QuoteAsset: "USDT",
			Filters: []exchange.Filter{
				{FilterType: "PRICE_FILTER", TickSize: "0.01"},
				{FilterType: "LOT_SIZE", StepSize: "0.0001"},
				{FilterType: "NOTIONAL", MinNotional: "10"},
			},
		},
		model.USDTFutures: usdtFuturesSymbolInfo(),
		model.CoinFutures: {
			Symbol: "ETHUSD_PERP", ContractStatus: "TRADING", ContractType: "PERPETUAL",
			BaseAsset: "ETH", QuoteAsset: "USD", MarginAsset: "ETH",
			ContractSize: decimalPtr("10"),
			Filters: []exchange.Filter{
				{FilterType: "PRICE_FILTER", TickSize: "0.01"},
			},
		},
	}

	for marketType, info := range records {
		t.Run(marketType.String(), func(t *testing.T) {
			rule, err := symbolParsers[marketType](info)
			require.NoError(t, err)

			assert.True(t, rule.PriceTick.IsPositive(), "price_tick must be strictly positive")
			assert.True(t, rule.LotSize.IsPositive(), "lot_size must be strictly positive")

			wantNotional := marketType == model.Spot || marketType == model.USDTFutures
			assert.Equal(t, wantNotional, rule.MinNotional.Valid,
				"min notional must be present iff the venue sizes orders in quote currency")
		})
	}
}

// Test_symbolParsers_SchemaErrors verifies malformed records fail loudly
// instead of defaulting
func Test_symbolParsers_SchemaErrors(t *testing.T) {
	tests := []struct {
		name        string
		parse       parseFunc
		info        exchange.SymbolInfo
		description string
	}{
		{
			name:  "Missing price filter",
			parse: parseUSDTFuturesSymbolInfo,
			info: exchange.SymbolInfo{
				Symbol: "BTCUSDT",
				Filters: []exchange.Filter{
					{FilterType: "LOT_SIZE", StepSize: "0.001"},
					{FilterType: "MIN_NOTIONAL", Notional: "5"},
				},
			},
			description: "A missing PRICE_FILTER entry must fail the parse",
		},
		{
			name:  "Filter present but field empty",
			parse: parseUSDTFuturesSymbolInfo,
			info: exchange.SymbolInfo{
				Symbol: "BTCUSDT",
				Filters: []exchange.Filter{
					{FilterType: "PRICE_FILTER"}, // no tickSize
					{FilterType: "LOT_SIZE", StepSize: "0.001"},
					{FilterType: "MIN_NOTIONAL", Notional: "5"},
				},
			},
			description: "An empty tickSize must fail the parse",
		},
		{
			name:  "Zero tick size",
			parse: parseSpotSymbolInfo,
			info: exchange.SymbolInfo{
				Symbol: "ETHUSDT",
				Filters: []exchange.Filter{
					{FilterType: "PRICE_FILTER", TickSize: "0"},
					{FilterType: "LOT_SIZE", StepSize: "0.0001"},
					{FilterType: "NOTIONAL", MinNotional: "10"},
				},
			},
			description: "A non-positive tick size violates the invariant",
		},
		{
			name:  "Non-decimal step size",
			parse: parseSpotSymbolInfo,
			info: exchange.SymbolInfo{
				Symbol: "ETHUSDT",
				Filters: []exchange.Filter{
					{FilterType: "PRICE_FILTER", TickSize: "0.01"},
					{FilterType: "LOT_SIZE", StepSize: "abc"},
					{FilterType: "NOTIONAL", MinNotional: "10"},
				},
			},
			description: "An unparseable step size must fail the parse",
		},
		{
			name:  "Coin futures without contract size",
			parse: parseCoinFuturesSymbolInfo,
			info: exchange.SymbolInfo{
				Symbol: "BTCUSD_PERP",
				Filters: []exchange.Filter{
					{FilterType: "PRICE_FILTER", TickSize: "0.1"},
				},
			},
			description: "A coin-margined record without contractSize must fail the parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse(tt.info)
			assert.Error(t, err, tt.description)
		})
	}
}
