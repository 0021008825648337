// Package journal persists scenario run reports: a SQLite store for KPIs and
// ladders, CSV ladder exports, and Org-mode summaries.
package journal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/liqstress/kpi"
	"github.com/rustyeddy/liqstress/scenario"
)

// RunRecord mirrors the runs table.
type RunRecord struct {
	RunID       string
	AsOf        time.Time
	GeneratedAt time.Time
	HorizonDays int
	HQLA        float64
	Scenarios   int
	Failed      int
}

// ScenarioKPIRecord mirrors the scenario_kpis table. The baseline is stored
// under scenario.BaselineName.
type ScenarioKPIRecord struct {
	RunID                 string
	Scenario              string
	Severity              string
	LCR                   float64
	LCRUnbounded          bool
	PeakOutflow30d        float64
	PeakCumulativeOutflow float64
	SurvivalDays          int
	BindingMetric         string
	BindingGapUSD         decimal.Decimal
	Warnings              int
	Error                 string
}

// LadderRecord is one day of one scenario's ladder.
type LadderRecord struct {
	RunID             string
	Scenario          string
	Day               int
	Date              time.Time
	Inflow            float64
	Outflow           float64
	Net               float64
	CumulativeNet     float64
	CumulativeOutflow float64
}

type Journal interface {
	RecordReport(ctx context.Context, rep scenario.Report) error
	Close() error
}

func runRecord(rep scenario.Report) RunRecord {
	return RunRecord{
		RunID:       rep.RunID,
		AsOf:        rep.AsOf,
		GeneratedAt: rep.GeneratedAt,
		HorizonDays: rep.HorizonDays,
		HQLA:        rep.Baseline.KPIs.HQLA,
		Scenarios:   len(rep.Scenarios),
		Failed:      len(rep.Failed()),
	}
}

func kpiRecord(runID string, o scenario.Outcome) ScenarioKPIRecord {
	return ScenarioKPIRecord{
		RunID:                 runID,
		Scenario:              o.Name,
		Severity:              string(o.Severity),
		LCR:                   o.KPIs.LCR,
		LCRUnbounded:          o.KPIs.LCRUnbounded,
		PeakOutflow30d:        o.KPIs.PeakOutflow30d,
		PeakCumulativeOutflow: o.KPIs.PeakCumulativeOutflow,
		SurvivalDays:          o.KPIs.SurvivalDays,
		BindingMetric:         o.KPIs.Gaps.BindingMetric,
		BindingGapUSD:         o.KPIs.Gaps.BindingGapUSD,
		Warnings:              len(o.Warnings),
		Error:                 o.Error,
	}
}

// outcomes returns the baseline followed by the scenarios.
func outcomes(rep scenario.Report) []scenario.Outcome {
	return append([]scenario.Outcome{rep.Baseline}, rep.Scenarios...)
}

// Row converts a stored ladder day back into a kpi.Row.
func (r LadderRecord) Row() kpi.Row {
	return kpi.Row{
		Date:              r.Date,
		Day:               r.Day,
		Inflow:            r.Inflow,
		Outflow:           r.Outflow,
		Net:               r.Net,
		CumulativeNet:     r.CumulativeNet,
		CumulativeOutflow: r.CumulativeOutflow,
	}
}

// Ladder rebuilds a ladder from stored rows.
func Ladder(recs []LadderRecord) kpi.Ladder {
	l := make(kpi.Ladder, len(recs))
	for i, r := range recs {
		l[i] = r.Row()
	}
	return l
}
