package service

import (
	"context"
	"fmt"
	"math"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/punchamoorthee/gashawk/internal/oracle"
	"golang.org/x/sync/errgroup"
)

// SavingsRatio is GasHawk's average fee reduction over the past 30 days.
const SavingsRatio = 0.318

// Aggregator sums the fee spend of an account.
type Aggregator interface {
	Aggregate(ctx context.Context, address domain.Address) (domain.UsageTotal, error)
}

// RateSource returns the price of base in quote.
type RateSource interface {
	FetchRate(ctx context.Context, base, quote string) (float64, error)
}

type AggregatorFunc func(ctx context.Context, address domain.Address) (domain.UsageTotal, error)

func (f AggregatorFunc) Aggregate(ctx context.Context, address domain.Address) (domain.UsageTotal, error) {
	return f(ctx, address)
}

type RateSourceFunc func(ctx context.Context, base, quote string) (float64, error)

func (f RateSourceFunc) FetchRate(ctx context.Context, base, quote string) (float64, error) {
	return f(ctx, base, quote)
}

// Estimate applies SavingsRatio to spent and converts the result at rate.
// Only FiatSavings is rounded.
func Estimate(spent, rate float64) domain.SavingsEstimate {
	savings := spent * SavingsRatio
	return domain.SavingsEstimate{
		TotalSpent:       spent,
		EstimatedSavings: savings,
		FiatSavings:      Round(savings*rate, 2),
		Rate:             rate,
	}
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// Calculator produces a savings report for a resolved address.
type Calculator struct {
	usage Aggregator
	rates RateSource
}

func NewCalculator(usage Aggregator, rates RateSource) *Calculator {
	return &Calculator{usage: usage, rates: rates}
}

// Calculate fetches usage and the ETH/USD rate concurrently. The first
// failure cancels the other call and is returned unchanged.
func (c *Calculator) Calculate(ctx context.Context, address domain.Address) (*domain.SavingsReport, error) {
	var (
		usage domain.UsageTotal
		rate  float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("aggregate", func() (err error) {
		usage, err = c.usage.Aggregate(gctx, address)
		return err
	}))
	g.Go(guard("fetch rate", func() (err error) {
		rate, err = c.rates.FetchRate(gctx, oracle.AssetEthereum, oracle.CurrencyUSD)
		return err
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.SavingsReport{
		Address:  address,
		TxCount:  usage.Count,
		Estimate: Estimate(usage.Spent, rate),
	}, nil
}

// guard turns a panic in fn into an error so it cannot take down the process
// from a goroutine the caller cannot recover.
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		return fn()
	}
}
