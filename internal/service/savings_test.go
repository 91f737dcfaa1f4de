package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr domain.Address = "0xD7029BDEa1c17493893AAfE29AAD69EF892B8ff2"

func TestEstimate(t *testing.T) {
	est := Estimate(1.0, 3000)
	assert.Equal(t, 1.0, est.TotalSpent)
	assert.Equal(t, 0.318, est.EstimatedSavings)
	assert.Equal(t, 954.00, est.FiatSavings)
	assert.Equal(t, 3000.0, est.Rate)
}

func TestEstimateRoundsOnlyFiat(t *testing.T) {
	est := Estimate(0.123456789, 2500)
	assert.Equal(t, 0.123456789*SavingsRatio, est.EstimatedSavings)
	assert.Equal(t, 98.15, est.FiatSavings)
}

func TestEstimateZero(t *testing.T) {
	est := Estimate(0, 2500)
	assert.Zero(t, est.EstimatedSavings)
	assert.Zero(t, est.FiatSavings)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1590.0, Round(2.0*SavingsRatio*2500, 2))
	assert.Equal(t, 0.636, Round(2.0*SavingsRatio, 4))
	assert.Equal(t, 1.23, Round(1.2345, 2))
}

func TestCalculate(t *testing.T) {
	var gotBase, gotQuote string
	c := NewCalculator(
		AggregatorFunc(func(ctx context.Context, a domain.Address) (domain.UsageTotal, error) {
			assert.Equal(t, addr, a)
			return domain.UsageTotal{Spent: 2.0, Count: 42}, nil
		}),
		RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
			gotBase, gotQuote = base, quote
			return 2500, nil
		}),
	)

	report, err := c.Calculate(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", gotBase)
	assert.Equal(t, "usd", gotQuote)
	assert.Equal(t, addr, report.Address)
	assert.Equal(t, 42, report.TxCount)
	assert.Equal(t, 1590.0, report.Estimate.FiatSavings)
}

func TestCalculatePropagatesFirstFailure(t *testing.T) {
	aggErr := errors.New("explorer down")
	c := NewCalculator(
		AggregatorFunc(func(ctx context.Context, a domain.Address) (domain.UsageTotal, error) {
			return domain.UsageTotal{}, aggErr
		}),
		RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(5 * time.Second):
				return 2500, nil
			}
		}),
	)

	start := time.Now()
	_, err := c.Calculate(context.Background(), addr)
	require.ErrorIs(t, err, aggErr)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCalculateRateFailure(t *testing.T) {
	rateErr := errors.New("oracle down")
	c := NewCalculator(
		AggregatorFunc(func(ctx context.Context, a domain.Address) (domain.UsageTotal, error) {
			return domain.UsageTotal{Spent: 1, Count: 1}, nil
		}),
		RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
			return 0, rateErr
		}),
	)

	report, err := c.Calculate(context.Background(), addr)
	require.ErrorIs(t, err, rateErr)
	assert.Nil(t, report)
}

func TestCalculateRecoversPanic(t *testing.T) {
	c := NewCalculator(
		AggregatorFunc(func(ctx context.Context, a domain.Address) (domain.UsageTotal, error) {
			panic("nil map")
		}),
		RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
			return 1, nil
		}),
	)

	_, err := c.Calculate(context.Background(), addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregate panicked")
}
