package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/liqstress/scenario"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordReport stores the run, every outcome's KPIs and every ladder in one
// transaction. A failed scenario is stored with its error and no ladder.
func (j *SQLite) RecordReport(ctx context.Context, rep scenario.Report) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	r := runRecord(rep)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, as_of, generated_at, horizon_days, hqla, scenarios, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.AsOf, r.GeneratedAt, r.HorizonDays, r.HQLA, r.Scenarios, r.Failed,
	); err != nil {
		return fmt.Errorf("journal: insert run %s: %w", r.RunID, err)
	}

	kpiStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scenario_kpis
		(run_id, scenario, severity, lcr, lcr_unbounded, peak_outflow_30d, peak_cumulative_outflow,
		 survival_days, binding_metric, binding_gap_usd, warnings, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer kpiStmt.Close()

	ladderStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ladder
		(run_id, scenario, day, date, inflow, outflow, net, cumulative_net, cumulative_outflow)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ladderStmt.Close()

	for _, o := range outcomes(rep) {
		k := kpiRecord(rep.RunID, o)
		if _, err := kpiStmt.ExecContext(ctx,
			k.RunID, k.Scenario, k.Severity, k.LCR, k.LCRUnbounded, k.PeakOutflow30d,
			k.PeakCumulativeOutflow, k.SurvivalDays, k.BindingMetric, k.BindingGapUSD, k.Warnings, k.Error,
		); err != nil {
			return fmt.Errorf("journal: insert kpis for %s: %w", o.Name, err)
		}

		for _, row := range o.Ladder {
			if _, err := ladderStmt.ExecContext(ctx,
				rep.RunID, o.Name, row.Day, row.Date, row.Inflow, row.Outflow,
				row.Net, row.CumulativeNet, row.CumulativeOutflow,
			); err != nil {
				return fmt.Errorf("journal: insert ladder for %s day %d: %w", o.Name, row.Day, err)
			}
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
