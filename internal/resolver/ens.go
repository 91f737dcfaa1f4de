package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/punchamoorthee/gashawk/internal/metrics"
)

const (
	DefaultEndpoint = "https://api.ensdata.net"

	// NameSuffix marks input that should be looked up as an ENS name.
	NameSuffix = ".eth"

	InvalidInputMessage = "Invalid input: Please enter a valid Ethereum address or ENS name"
	NotFoundMessage     = "No address found for this ENS name"
)

// ResolutionError is returned for any input that cannot be turned into an
// address. Its message is safe to show to the user.
type ResolutionError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string { return e.Reason }

func (e *ResolutionError) Unwrap() error { return e.Err }

// IsAddress reports whether input is a 0x-prefixed, 40 hex digit address.
// Case is not checked.
func IsAddress(input string) bool {
	if len(input) < 2 || input[0] != '0' || (input[1] != 'x' && input[1] != 'X') {
		return false
	}
	return common.IsHexAddress(input)
}

// IsName reports whether input is eligible for an ENS lookup.
func IsName(input string) bool {
	return strings.HasSuffix(input, NameSuffix) && len(input) > len(NameSuffix)
}

// Client resolves user input against an ensdata-compatible HTTP API.
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

// Resolve returns input unchanged when it already is an address, looks it up
// when it is an ENS name, and fails with *ResolutionError otherwise.
// A single attempt is made.
func (c *Client) Resolve(ctx context.Context, input string) (domain.Address, error) {
	if IsAddress(input) {
		return domain.Address(input), nil
	}
	if !IsName(input) {
		return "", &ResolutionError{Input: input, Reason: InvalidInputMessage}
	}
	return c.lookup(ctx, input)
}

type ensResponse struct {
	Address string `json:"address"`
}

func (c *Client) lookup(ctx context.Context, name string) (addr domain.Address, err error) {
	defer metrics.ObserveUpstream("ens", time.Now(), &err)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+url.PathEscape(name), nil)
	if err != nil {
		return "", &ResolutionError{Input: name, Reason: "ENS resolution failed: bad request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ResolutionError{Input: name, Reason: "ENS resolution failed: " + transportDetail(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", &ResolutionError{Input: name, Reason: NotFoundMessage}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ResolutionError{
			Input:  name,
			Reason: "ENS resolution failed: " + http.StatusText(resp.StatusCode),
			Err:    fmt.Errorf("ens: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var payload ensResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", &ResolutionError{Input: name, Reason: "ENS resolution failed: malformed response", Err: err}
	}
	found := strings.TrimSpace(payload.Address)
	if found == "" {
		return "", &ResolutionError{Input: name, Reason: NotFoundMessage}
	}
	if !IsAddress(found) {
		return "", &ResolutionError{
			Input:  name,
			Reason: "ENS resolution failed: malformed response",
			Err:    fmt.Errorf("ens: %q is not an address", found),
		}
	}
	return domain.Address(found), nil
}

func transportDetail(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "service unavailable"
}
