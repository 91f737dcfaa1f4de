package explorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress domain.Address = "0xD7029BDEa1c17493893AAfE29AAD69EF892B8ff2"

func TestSumEmpty(t *testing.T) {
	total := Sum(nil)
	assert.Zero(t, total.Spent)
	assert.Zero(t, total.Count)
}

func TestSumSingleRecord(t *testing.T) {
	total := Sum([]domain.TransactionRecord{{GasUsed: "21000", GasPrice: "50000000000"}})
	assert.Equal(t, 0.00105, total.Spent)
	assert.Equal(t, 1, total.Count)
}

func TestSumTreatsMalformedRecordsAsZero(t *testing.T) {
	total := Sum([]domain.TransactionRecord{
		{GasUsed: "21000", GasPrice: "50000000000"},
		{GasUsed: "abc", GasPrice: "50000000000"},
		{GasUsed: "21000", GasPrice: ""},
		{GasUsed: "NaN", GasPrice: "1"},
		{GasUsed: "Inf", GasPrice: "1"},
		{GasUsed: "21000", GasPrice: "50000000000"},
	})
	assert.InDelta(t, 0.0021, total.Spent, 1e-15)
	assert.Equal(t, 6, total.Count)
}

func TestTxListURL(t *testing.T) {
	c := NewClient("https://example.test/api", "KEY", nil, 0)
	got := c.TxListURL(testAddress)
	assert.Contains(t, got, "https://example.test/api?")
	assert.Contains(t, got, "chainid=1")
	assert.Contains(t, got, "module=account")
	assert.Contains(t, got, "action=txlist")
	assert.Contains(t, got, "address=0xd7029bdea1c17493893aafe29aad69ef892b8ff2")
	assert.Contains(t, got, "startblock=12965000")
	assert.Contains(t, got, "endblock=latest")
	assert.Contains(t, got, "sort=desc")
	assert.Contains(t, got, "apikey=KEY")
}

func TestNewClientDefaultsToMultichainEndpoint(t *testing.T) {
	got := NewClient("", "KEY", nil, 0).TxListURL(testAddress)
	assert.True(t, strings.HasPrefix(got, "https://api.etherscan.io/v2/api?"), got)
	assert.Contains(t, got, "chainid=1")
}

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "KEY", srv.Client(), time.Second)
}

func TestAggregate(t *testing.T) {
	c := serve(t, http.StatusOK, `{"status":"1","message":"OK","result":[
		{"hash":"0x01","gasUsed":"21000","gasPrice":"50000000000"},
		{"hash":"0x02","gasUsed":"100000","gasPrice":"20000000000"}
	]}`)

	total, err := c.Aggregate(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, 2, total.Count)
	assert.InDelta(t, 0.00105+0.002, total.Spent, 1e-15)
}

func TestAggregateNoTransactions(t *testing.T) {
	c := serve(t, http.StatusOK, `{"status":"0","message":"No transactions found","result":[]}`)

	total, err := c.Aggregate(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, domain.UsageTotal{}, total)
}

func TestAggregateFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"api error":       {http.StatusOK, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`},
		"http error":      {http.StatusInternalServerError, `oops`},
		"bad json":        {http.StatusOK, `{"status":`},
		"missing result":  {http.StatusOK, `{"status":"1","message":"OK"}`},
		"empty with fail": {http.StatusOK, `{"status":"0","message":"Max rate limit reached","result":[]}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := serve(t, tc.status, tc.body)
			_, err := c.Aggregate(context.Background(), testAddress)
			var aggErr *AggregationError
			require.ErrorAs(t, err, &aggErr)
			assert.Equal(t, testAddress, aggErr.Address)
		})
	}
}

func TestAggregateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	defer close(release)

	c := NewClient(srv.URL, "KEY", srv.Client(), 50*time.Millisecond)
	_, err := c.Aggregate(context.Background(), testAddress)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
