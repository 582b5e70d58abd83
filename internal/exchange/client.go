// Package exchange provides REST market-data connectors for the Binance
// trading venues.
//
// This file contains the shared REST client used by all venue connectors.
// It owns the HTTP plumbing: request pacing against the venue's weight
// budget, the GET round trip, status handling and capture of the used
// weight reported by the exchange on every response.
package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// usedWeightHeader reports the request weight consumed within the current
// minute; Binance sets it on every REST response across all three venues.
const usedWeightHeader = "X-MBX-USED-WEIGHT-1M"

// restClient is the venue-agnostic HTTP layer shared by the connectors.
//
// Requests are paced through a token-bucket limiter refilled at the venue's
// per-minute weight budget, with each request consuming its declared weight
// cost. Pacing keeps a well-behaved caller below the ban threshold without
// any coordination between concurrent calls.
type restClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// newRESTClient builds the shared client for one venue. maxMinuteWeight
// sizes the pacing limiter; the burst equals the full minute budget so a
// fresh client never stalls its first requests.
func newRESTClient(cfg Config, maxMinuteWeight int) *restClient {
	return &restClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(maxMinuteWeight)/60.0), maxMinuteWeight),
	}
}

// get performs one GET round trip and returns the response body together
// with the used weight the exchange reported on it.
//
// The call blocks until the pacing limiter grants the request's weight
// cost or the context is cancelled. Non-2xx statuses become errors
// carrying the response body, which is where Binance puts its error code
// and message.
func (c *restClient) get(ctx context.Context, path string, params url.Values, weight int) ([]byte, int, error) {
	if err := c.limiter.WaitN(ctx, weight); err != nil {
		return nil, 0, err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	usedWeight := parseUsedWeight(res.Header.Get(usedWeightHeader))

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, usedWeight, err
	}

	if res.StatusCode >= 300 {
		log.Error().
			Str("path", path).
			Int("status", res.StatusCode).
			Msg("exchange request failed")
		return nil, usedWeight, fmt.Errorf("GET %s status %d: %s", path, res.StatusCode, string(body))
	}

	return body, usedWeight, nil
}

// parseUsedWeight converts the weight header into an int; a missing or
// malformed header counts as zero rather than failing the request.
func parseUsedWeight(headerValue string) int {
	if headerValue == "" {
		return 0
	}
	w, err := strconv.Atoi(headerValue)
	if err != nil {
		return 0
	}
	return w
}

// klineParams encodes the optional kline request parameters, omitting
// zero values so the exchange applies its defaults.
func klineParams(symbol, interval string, p KlineParams) url.Values {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.StartTime > 0 {
		params.Set("startTime", strconv.FormatInt(p.StartTime, 10))
	}
	if p.EndTime > 0 {
		params.Set("endTime", strconv.FormatInt(p.EndTime, 10))
	}
	return params
}

// defaultTimeout bounds a single REST round trip unless overridden.
const defaultTimeout = 10 * time.Second

// serverTimeResponse is the /time payload, identical across venues.
type serverTimeResponse struct {
	ServerTime int64 `json:"serverTime"`
}

// getJSON performs a paced GET and decodes the JSON body into T.
func getJSON[T any](ctx context.Context, c *restClient, path string, params url.Values, weight int) (T, int, error) {
	var out T

	body, usedWeight, err := c.get(ctx, path, params, weight)
	if err != nil {
		return out, usedWeight, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, usedWeight, fmt.Errorf("decode %s: %w", path, err)
	}

	return out, usedWeight, nil
}
