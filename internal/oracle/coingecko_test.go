package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"ethereum":{"usd":3124.57}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), time.Second)
	rate, err := c.FetchRate(context.Background(), AssetEthereum, CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 3124.57, rate)
}

func TestFetchRateFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"rate limited":   {http.StatusTooManyRequests, `{"status":{"error_code":429}}`},
		"malformed":      {http.StatusOK, `not json`},
		"missing asset":  {http.StatusOK, `{}`},
		"missing quote":  {http.StatusOK, `{"ethereum":{"eur":2900}}`},
		"null price":     {http.StatusOK, `{"ethereum":{"usd":null}}`},
		"zero price":     {http.StatusOK, `{"ethereum":{"usd":0}}`},
		"negative price": {http.StatusOK, `{"ethereum":{"usd":-1}}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, srv.Client(), time.Second)
			_, err := c.FetchRate(context.Background(), AssetEthereum, CurrencyUSD)
			var oErr *OracleError
			require.ErrorAs(t, err, &oErr)
			assert.Equal(t, AssetEthereum, oErr.Base)
			assert.Equal(t, CurrencyUSD, oErr.Quote)
		})
	}
}

func TestFetchRateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := NewClient(endpoint, nil, time.Second)
	_, err := c.FetchRate(context.Background(), AssetEthereum, CurrencyUSD)
	var oErr *OracleError
	require.ErrorAs(t, err, &oErr)
	assert.Error(t, oErr.Err)
}
