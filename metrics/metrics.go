// Package metrics provides Prometheus instrumentation for scenario runs.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder owns its own registry so runs in the same process never share
// counters. A nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	// ScenarioRuns counts scenario runs by severity and outcome.
	ScenarioRuns *prometheus.CounterVec

	// ScenarioDuration tracks wall time per scenario run.
	ScenarioDuration prometheus.Histogram

	// LCR and SurvivalDays hold the latest value per scenario.
	LCR          *prometheus.GaugeVec
	SurvivalDays *prometheus.GaugeVec

	ClassificationWarnings prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		ScenarioRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "liqstress_scenario_runs_total",
			Help: "Scenario runs by severity and outcome",
		}, []string{"severity", "outcome"}),
		ScenarioDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "liqstress_scenario_duration_seconds",
			Help:    "Scenario run duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		LCR: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "liqstress_lcr_ratio",
			Help: "Liquidity coverage ratio of the latest run, per scenario",
		}, []string{"scenario"}),
		SurvivalDays: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "liqstress_survival_days",
			Help: "Survival days of the latest run, per scenario",
		}, []string{"scenario"}),
		ClassificationWarnings: f.NewCounter(prometheus.CounterOpts{
			Name: "liqstress_classification_warnings_total",
			Help: "Positions excluded from HQLA because their instrument type is unknown",
		}),
	}
}

// Registry exposes the underlying registry for gathering or serving.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observation is one finished scenario run.
type Observation struct {
	Scenario     string
	Severity     string
	Err          error
	Duration     time.Duration
	LCR          float64
	LCRUnbounded bool
	SurvivalDays int
	Unclassified int
}

// ObserveScenario records o. Failed runs only count toward the run counter.
// An unbounded LCR is exported as +Inf.
func (r *Recorder) ObserveScenario(o Observation) {
	if r == nil {
		return
	}
	severity := o.Severity
	if severity == "" {
		severity = "none"
	}

	r.ScenarioDuration.Observe(o.Duration.Seconds())
	if o.Err != nil {
		r.ScenarioRuns.WithLabelValues(severity, OutcomeError).Inc()
		return
	}
	r.ScenarioRuns.WithLabelValues(severity, OutcomeOK).Inc()

	lcr := o.LCR
	if o.LCRUnbounded {
		lcr = math.Inf(1)
	}
	r.LCR.WithLabelValues(o.Scenario).Set(lcr)
	r.SurvivalDays.WithLabelValues(o.Scenario).Set(float64(o.SurvivalDays))
	r.ClassificationWarnings.Add(float64(o.Unclassified))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write textfile %s: %w", path, err)
	}
	return nil
}
