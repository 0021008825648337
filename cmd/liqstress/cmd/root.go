package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "liqstress",
	Short: "Bank liquidity cashflow and KPI stress engine",
	Long: `liqstress projects a bank's contractual and behavioral cashflows over a
daily horizon and computes liquidity KPIs for a baseline and a set of
stress scenarios.

It provides tools for:
  - Classifying HQLA and computing the post-haircut buffer
  - Running macro-driven or explicit behavioral stress scenarios
  - LCR, survival days and gap-to-target reporting
  - Journaling runs to SQLite or CSV`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	},
}

var (
	verbose bool
	envFile string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "human-readable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading config")
}

// newLogger builds a JSON production logger at level, or a development
// logger when --verbose is set.
func newLogger(level string) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
