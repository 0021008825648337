package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("journal: not found")

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRowContext(ctx, `
		SELECT run_id, as_of, generated_at, horizon_days, hqla, scenarios, failed
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.AsOf,
		&rec.GeneratedAt,
		&rec.HorizonDays,
		&rec.HQLA,
		&rec.Scenarios,
		&rec.Failed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q: %w", runID, ErrNotFound)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRunsBetween returns runs generated within [start, end), oldest first.
func (j *SQLite) ListRunsBetween(ctx context.Context, start, end time.Time) ([]RunRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, as_of, generated_at, horizon_days, hqla, scenarios, failed
		FROM runs
		WHERE generated_at >= ? AND generated_at < ?
		ORDER BY generated_at ASC, run_id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.AsOf,
			&rec.GeneratedAt,
			&rec.HorizonDays,
			&rec.HQLA,
			&rec.Scenarios,
			&rec.Failed,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListScenarioKPIs returns the KPI rows of a run, baseline first.
func (j *SQLite) ListScenarioKPIs(ctx context.Context, runID string) ([]ScenarioKPIRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, scenario, severity, lcr, lcr_unbounded, peak_outflow_30d, peak_cumulative_outflow,
		       survival_days, binding_metric, binding_gap_usd, warnings, error
		FROM scenario_kpis
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScenarioKPIRecord
	for rows.Next() {
		var rec ScenarioKPIRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Scenario,
			&rec.Severity,
			&rec.LCR,
			&rec.LCRUnbounded,
			&rec.PeakOutflow30d,
			&rec.PeakCumulativeOutflow,
			&rec.SurvivalDays,
			&rec.BindingMetric,
			&rec.BindingGapUSD,
			&rec.Warnings,
			&rec.Error,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLadder returns one scenario's ladder ordered by day.
func (j *SQLite) ListLadder(ctx context.Context, runID, scenario string) ([]LadderRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, scenario, day, date, inflow, outflow, net, cumulative_net, cumulative_outflow
		FROM ladder
		WHERE run_id = ? AND scenario = ?
		ORDER BY day ASC`, runID, scenario)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LadderRecord
	for rows.Next() {
		var rec LadderRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Scenario,
			&rec.Day,
			&rec.Date,
			&rec.Inflow,
			&rec.Outflow,
			&rec.Net,
			&rec.CumulativeNet,
			&rec.CumulativeOutflow,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
