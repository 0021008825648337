package journal

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rustyeddy/liqstress/kpi"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/scenario"
)

var (
	ladderHeader = []string{"day", "date", "inflow", "outflow", "net", "cumulative_net", "cumulative_outflow"}
	kpiHeader    = []string{"scenario", "severity", "hqla", "lcr", "lcr_unbounded", "peak_outflow_30d",
		"peak_cumulative_outflow", "survival_days", "binding_metric", "binding_gap_usd", "warnings", "error"}
)

// CSVJournal writes one KPI file per run and one ladder file per outcome
// into a directory.
type CSVJournal struct {
	dir string
}

func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CSVJournal{dir: dir}, nil
}

// RecordReport writes <run>_kpis.csv and <run>_<scenario>.csv for each
// outcome that has a ladder.
func (j *CSVJournal) RecordReport(ctx context.Context, rep scenario.Report) error {
	if err := writeFile(filepath.Join(j.dir, rep.RunID+"_kpis.csv"), func(w io.Writer) error {
		return WriteKPIsCSV(w, rep)
	}); err != nil {
		return err
	}

	for _, o := range outcomes(rep) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(o.Ladder) == 0 {
			continue
		}
		path := filepath.Join(j.dir, rep.RunID+"_"+slug(o.Name)+".csv")
		if err := writeFile(path, func(w io.Writer) error {
			return WriteLadderCSV(w, o.Ladder)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (j *CSVJournal) Close() error { return nil }

// Dir returns the output directory.
func (j *CSVJournal) Dir() string { return j.dir }

// WriteLadderCSV writes a ladder with a header row.
func WriteLadderCSV(w io.Writer, l kpi.Ladder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ladderHeader); err != nil {
		return err
	}
	for _, r := range l {
		if err := cw.Write([]string{
			strconv.Itoa(r.Day),
			r.Date.Format(dates.Layout),
			f(r.Inflow),
			f(r.Outflow),
			f(r.Net),
			f(r.CumulativeNet),
			f(r.CumulativeOutflow),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteKPIsCSV writes one row per outcome, baseline first.
func WriteKPIsCSV(w io.Writer, rep scenario.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(kpiHeader); err != nil {
		return err
	}
	for _, o := range outcomes(rep) {
		k := kpiRecord(rep.RunID, o)
		if err := cw.Write([]string{
			k.Scenario,
			k.Severity,
			f(o.KPIs.HQLA),
			lcr(k.LCR, k.LCRUnbounded),
			strconv.FormatBool(k.LCRUnbounded),
			f(k.PeakOutflow30d),
			f(k.PeakCumulativeOutflow),
			strconv.Itoa(k.SurvivalDays),
			k.BindingMetric,
			k.BindingGapUSD.StringFixed(2),
			strconv.Itoa(k.Warnings),
			k.Error,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFile(path string, fn func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// slug keeps scenario names usable as file names.
func slug(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func lcr(x float64, unbounded bool) string {
	if unbounded {
		return "inf"
	}
	return strconv.FormatFloat(x, 'f', 4, 64)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
