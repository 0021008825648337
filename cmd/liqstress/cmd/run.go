package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/liqstress/config"
	"github.com/rustyeddy/liqstress/engine"
	"github.com/rustyeddy/liqstress/journal"
	"github.com/rustyeddy/liqstress/metrics"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/portfolio"
	"github.com/rustyeddy/liqstress/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the baseline and stress scenarios for a portfolio",
	Long: `Run computes the baseline KPIs for a portfolio and then every scenario in
the scenarios file. The report is written as JSON to --out (stdout when
empty) and journaled according to the config and flags.

Example:
  liqstress run --config liqstress.yaml --portfolio book.yaml \
    --scenarios scenarios.yaml --as-of 2025-01-31 --db runs.db`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runConfigPath    string
	runPortfolioPath string
	runScenariosPath string
	runAsOf          string
	runOut           string
	runOrg           string
	runDBPath        string
	runLadderDir     string
	runMetricsFile   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON); defaults when empty")
	runCmd.Flags().StringVarP(&runPortfolioPath, "portfolio", "p", "", "path to portfolio file (required)")
	runCmd.Flags().StringVarP(&runScenariosPath, "scenarios", "s", "", "path to scenarios file; baseline only when empty")
	runCmd.Flags().StringVar(&runAsOf, "as-of", "", "as-of date YYYY-MM-DD (default today, UTC)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "report JSON path (default stdout)")
	runCmd.Flags().StringVar(&runOrg, "org", "", "also write an Org-mode summary to this path")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "journal the run to this SQLite DB")
	runCmd.Flags().StringVar(&runLadderDir, "ladder-dir", "", "write KPI and ladder CSVs to this directory")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	_ = runCmd.MarkFlagRequired("portfolio")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	asOf := dates.Day(time.Now().UTC())
	if runAsOf != "" {
		if asOf, err = dates.Parse(runAsOf); err != nil {
			return fmt.Errorf("as-of: %w", err)
		}
	}

	pf, err := portfolio.LoadFile(runPortfolioPath)
	if err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}
	var scenarios []scenario.Scenario
	if runScenariosPath != "" {
		if scenarios, err = scenario.LoadFile(runScenariosPath); err != nil {
			return fmt.Errorf("load scenarios: %w", err)
		}
	}

	eng, err := engine.New(cfg.Engine(), engine.WithLogger(log))
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder()
	runner := &scenario.Runner{
		Engine:      eng,
		Concurrency: cfg.Concurrency,
		Log:         log,
		Metrics:     rec,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("run starting",
		zap.String("as_of", asOf.Format(dates.Layout)),
		zap.Int("positions", pf.Len()),
		zap.Int("scenarios", len(scenarios)),
	)
	rep, err := runner.Run(ctx, asOf, pf, scenarios)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if err := writeReport(cmd, rep); err != nil {
		return err
	}
	if runOrg != "" {
		if err := journal.WriteReportOrg(runOrg, rep); err != nil {
			return fmt.Errorf("write org: %w", err)
		}
	}
	if err := recordReport(ctx, cfg, rep); err != nil {
		return err
	}
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	failed := rep.Failed()
	for _, o := range failed {
		log.Warn("scenario produced no KPIs", zap.String("scenario", o.Name), zap.String("error", o.Error))
	}
	log.Info("run finished",
		zap.String("run_id", rep.RunID),
		zap.Int("scenarios", len(rep.Scenarios)),
		zap.Int("failed", len(failed)),
	)
	return nil
}

// loadRunConfig reads --config (or defaults) and lets flags override the
// journal and metrics outputs.
func loadRunConfig() (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		if cfg, err = config.LoadWithDefaults(runConfigPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if runDBPath != "" {
		cfg.Journal.Type = config.JournalSQLite
		cfg.Journal.DBPath = runDBPath
	}
	if runLadderDir != "" {
		cfg.Journal.LadderDir = runLadderDir
		if cfg.Journal.Type == config.JournalNone {
			cfg.Journal.Type = config.JournalCSV
		}
	}
	if runMetricsFile != "" {
		cfg.Metrics.Textfile = runMetricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func writeReport(cmd *cobra.Command, rep scenario.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if runOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(runOut, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// recordReport journals to SQLite when configured, and to CSV whenever a
// ladder directory is set.
func recordReport(ctx context.Context, cfg *config.Config, rep scenario.Report) error {
	var journals []journal.Journal
	defer func() {
		for _, j := range journals {
			_ = j.Close()
		}
	}()

	if cfg.Journal.Type == config.JournalSQLite {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		journals = append(journals, j)
	}
	if cfg.Journal.LadderDir != "" {
		j, err := journal.NewCSV(cfg.Journal.LadderDir)
		if err != nil {
			return fmt.Errorf("open ladder dir: %w", err)
		}
		journals = append(journals, j)
	}

	for _, j := range journals {
		if err := j.RecordReport(ctx, rep); err != nil {
			return fmt.Errorf("journal report: %w", err)
		}
	}
	return nil
}
