package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OER-Club/CS39AE-Fall25/internal/httputil"
)

// PriceSource returns the current price of each requested instrument in
// the quote currency. Implemented by Client and by Memoizer.
type PriceSource interface {
	SimplePrices(ctx context.Context, ids []string, vsCurrency string) (map[string]float64, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
			Logger:      log,
		},
		log: log,
	}
}

// SimplePrices fetches the CoinGecko /simple/price endpoint for the given
// instrument ids. Every requested id must be present in the response; no
// partial result is returned on failure.
func (c *Client) SimplePrices(ctx context.Context, ids []string, vsCurrency string) (map[string]float64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no instrument ids requested")
	}
	if vsCurrency == "" {
		vsCurrency = "usd"
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", vsCurrency)
	endpoint := c.baseURL + "/simple/price?" + q.Encode()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			return nil, &RemoteError{Status: se.Status, Body: se.Body}
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &RemoteError{Status: resp.StatusCode, Body: string(body)}
	}

	var data map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		quote, ok := data[id]
		if !ok {
			return nil, fmt.Errorf("instrument %q missing from response", id)
		}
		price, ok := quote[vsCurrency]
		if !ok {
			return nil, fmt.Errorf("instrument %q has no %s quote", id, vsCurrency)
		}
		if price <= 0 {
			return nil, fmt.Errorf("invalid price for %q: %f", id, price)
		}
		out[id] = price
	}

	c.log.Debug("prices fetched",
		zap.Int("instruments", len(out)),
		zap.String("vsCurrency", vsCurrency))
	return out, nil
}
