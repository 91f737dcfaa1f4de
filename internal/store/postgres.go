package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchamoorthee/gashawk/internal/domain"
)

// Schema creates the report log table. It is safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS savings_reports (
	id                BIGSERIAL PRIMARY KEY,
	address           TEXT             NOT NULL,
	human_name        TEXT             NOT NULL DEFAULT '',
	tx_count          INTEGER          NOT NULL,
	total_spent       DOUBLE PRECISION NOT NULL,
	estimated_savings DOUBLE PRECISION NOT NULL,
	fiat_savings      DOUBLE PRECISION NOT NULL,
	eth_usd           DOUBLE PRECISION NOT NULL,
	created_at        TIMESTAMPTZ      NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS savings_reports_address_idx ON savings_reports (lower(address));
`

// ReportLog appends every produced savings report. Nothing reads it back
// while serving requests.
type ReportLog struct {
	Db *pgxpool.Pool
}

func NewReportLog(ctx context.Context, connString string) (*ReportLog, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &ReportLog{Db: pool}, nil
}

func (s *ReportLog) Close() {
	s.Db.Close()
}

// Record inserts one report.
func (s *ReportLog) Record(ctx context.Context, r domain.SavingsReport) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO savings_reports
			(address, human_name, tx_count, total_spent, estimated_savings, fiat_savings, eth_usd)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.Address.String(), r.Name, r.TxCount,
		r.Estimate.TotalSpent, r.Estimate.EstimatedSavings, r.Estimate.FiatSavings, r.Estimate.Rate,
	)
	if err != nil {
		return fmt.Errorf("report insert failed: %w", err)
	}
	return nil
}
