package store

import (
	"context"
	"os"
	"testing"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFor(ctx context.Context, log *ReportLog, address domain.Address) (int64, error) {
	var n int64
	err := log.Db.QueryRow(ctx,
		"SELECT COUNT(*) FROM savings_reports WHERE lower(address) = lower($1)",
		address.String()).Scan(&n)
	return n, err
}

// Runs against a real Postgres when TEST_DB_SOURCE is set.
func TestReportLogRecord(t *testing.T) {
	dsn := os.Getenv("TEST_DB_SOURCE")
	if dsn == "" {
		t.Skip("TEST_DB_SOURCE not set")
	}
	ctx := context.Background()

	log, err := NewReportLog(ctx, dsn)
	require.NoError(t, err)
	defer log.Close()

	_, err = log.Db.Exec(ctx, Schema)
	require.NoError(t, err)

	addr := domain.Address("0xD7029BDEa1c17493893AAfE29AAD69EF892B8ff2")
	before, err := countFor(ctx, log, addr)
	require.NoError(t, err)

	err = log.Record(ctx, domain.SavingsReport{
		Address: addr,
		TxCount: 3,
		Estimate: domain.SavingsEstimate{
			TotalSpent:       2,
			EstimatedSavings: 0.636,
			FiatSavings:      1590,
			Rate:             2500,
		},
	})
	require.NoError(t, err)

	after, err := countFor(ctx, log, domain.Address("0xd7029bdea1c17493893aafe29aad69ef892b8ff2"))
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestNewReportLogRejectsBadDSN(t *testing.T) {
	_, err := NewReportLog(context.Background(), "postgres://%zz")
	require.Error(t, err)
}
