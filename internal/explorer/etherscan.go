package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/punchamoorthee/gashawk/internal/metrics"
)

const (
	DefaultEndpoint = "https://api.etherscan.io/v2/api"

	// ChainID selects Ethereum mainnet on the multichain API.
	ChainID = 1

	// StartBlock is the London fork; only EIP-1559 era transactions count.
	StartBlock = 12965000
	EndBlock   = "latest"

	noTransactionsMessage = "No transactions found"
)

const weiPerEther = float64(params.Ether)

// AggregationError wraps any failure to fetch or decode an account's history.
type AggregationError struct {
	Address domain.Address
	Err     error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate %s: %v", e.Address, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// Client talks to an etherscan-compatible account API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	timeout  time.Duration
}

func NewClient(endpoint, apiKey string, client *http.Client, timeout time.Duration) *Client {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{endpoint: ep, apiKey: apiKey, http: client, timeout: timeout}
}

// TxListURL builds the txlist query for address.
func (c *Client) TxListURL(address domain.Address) string {
	values := url.Values{}
	values.Set("chainid", strconv.Itoa(ChainID))
	values.Set("module", "account")
	values.Set("action", "txlist")
	values.Set("address", strings.ToLower(address.String()))
	values.Set("startblock", strconv.Itoa(StartBlock))
	values.Set("endblock", EndBlock)
	values.Set("sort", "desc")
	values.Set("apikey", c.apiKey)
	return c.endpoint + "?" + values.Encode()
}

type txListResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// TxList returns the most recent transactions of address since StartBlock.
// The explorer caps the page at 10,000 records.
func (c *Client) TxList(ctx context.Context, address domain.Address) (records []domain.TransactionRecord, err error) {
	defer metrics.ObserveUpstream("etherscan", time.Now(), &err)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.TxListURL(address), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("etherscan: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload txListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("etherscan: decode: %w", err)
	}

	if err := json.Unmarshal(payload.Result, &records); err != nil {
		// Errors come back as status "0" with a string result.
		var detail string
		if json.Unmarshal(payload.Result, &detail) == nil {
			return nil, fmt.Errorf("etherscan: %s: %s", payload.Message, detail)
		}
		return nil, fmt.Errorf("etherscan: unexpected result: %w", err)
	}
	if payload.Status == "0" && len(records) == 0 && payload.Message != noTransactionsMessage {
		return nil, fmt.Errorf("etherscan: %s", payload.Message)
	}
	return records, nil
}

// Aggregate fetches the history of address and sums its fee spend.
func (c *Client) Aggregate(ctx context.Context, address domain.Address) (domain.UsageTotal, error) {
	records, err := c.TxList(ctx, address)
	if err != nil {
		return domain.UsageTotal{}, &AggregationError{Address: address, Err: err}
	}
	return Sum(records), nil
}

// Sum adds gasUsed * gasPrice / 1e18 over records. A record whose numbers do
// not parse contributes zero but is still counted.
func Sum(records []domain.TransactionRecord) domain.UsageTotal {
	total := domain.UsageTotal{Count: len(records)}
	for _, tx := range records {
		total.Spent += Fee(tx)
	}
	return total
}

// Fee is the ether paid for a single transaction, or zero when malformed.
func Fee(tx domain.TransactionRecord) float64 {
	gasUsed, ok := parseDecimal(tx.GasUsed)
	if !ok {
		return 0
	}
	gasPrice, ok := parseDecimal(tx.GasPrice)
	if !ok {
		return 0
	}
	fee := gasUsed * gasPrice / weiPerEther
	if math.IsNaN(fee) || math.IsInf(fee, 0) {
		return 0
	}
	return fee
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
