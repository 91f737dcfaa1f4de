package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/punchamoorthee/gashawk/internal/metrics"
)

const (
	DefaultEndpoint = "https://api.coingecko.com/api/v3"

	AssetEthereum = "ethereum"
	CurrencyUSD   = "usd"
)

// OracleError wraps any failure to obtain a conversion rate.
type OracleError struct {
	Base  string
	Quote string
	Err   error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("rate %s/%s: %v", e.Base, e.Quote, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// Client adapts the CoinGecko simple price API. Rates are fetched fresh on
// every call.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
}

func NewClient(endpoint string, client *http.Client, timeout time.Duration) *Client {
	ep := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if ep == "" {
		ep = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{endpoint: ep, http: client, timeout: timeout}
}

// FetchRate returns the price of one unit of base (a CoinGecko asset id)
// in quote (a currency code).
func (c *Client) FetchRate(ctx context.Context, base, quote string) (float64, error) {
	rate, err := c.fetch(ctx, strings.ToLower(base), strings.ToLower(quote))
	if err != nil {
		return 0, &OracleError{Base: base, Quote: quote, Err: err}
	}
	return rate, nil
}

func (c *Client) fetch(ctx context.Context, base, quote string) (rate float64, err error) {
	defer metrics.ObserveUpstream("coingecko", time.Now(), &err)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	values := url.Values{}
	values.Set("ids", base)
	values.Set("vs_currencies", quote)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/simple/price?"+values.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("coingecko: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload map[string]map[string]json.Number
	if err := decoder.Decode(&payload); err != nil {
		return 0, fmt.Errorf("coingecko: decode: %w", err)
	}
	entry, ok := payload[base]
	if !ok {
		return 0, fmt.Errorf("coingecko: quote missing for %s", base)
	}
	raw, ok := entry[quote]
	if !ok {
		return 0, fmt.Errorf("coingecko: %s price missing for %s", quote, base)
	}
	rate, err = raw.Float64()
	if err != nil || rate <= 0 {
		return 0, fmt.Errorf("coingecko: invalid rate %q", raw.String())
	}
	return rate, nil
}
