package cmd

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/caresim/caresim/sim"
)

var (
	// CLI flags
	scenarioPath string // Path to the scenario YAML
	seed         int64  // Seed for the duration sampler
	replications int    // Number of independent replications
	logLevel     string // Log verbosity level
	csvPath      string // CSV output path for flattened journals
	xlsxPath     string // XLSX output path for flattened journals
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "caresim",
	Short: "Discrete-event simulator for care-pathway resource contention",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the care-pathway simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided. Exiting simulation.")
		}
		scenario, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("unable to read scenario config; %v", err)
		}
		if replications < 1 {
			logrus.Fatalf("replications must be at least 1, got %d", replications)
		}

		logrus.Infof("Starting simulation: %d resources, %d activities, %d replication(s), seed=%d",
			len(scenario.Resources), len(scenario.Activities), replications, seed)

		startTime := time.Now()
		records, err := runReplications(scenario, sim.NewSimulationKey(seed), replications)
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}

		if csvPath != "" {
			if err := writeCSVFile(csvPath, records); err != nil {
				logrus.Fatalf("writing %s: %v", csvPath, err)
			}
			logrus.Infof("Wrote %d journal records to %s", len(records), csvPath)
		}
		if xlsxPath != "" {
			if err := writeXLSXFile(xlsxPath, records); err != nil {
				logrus.Fatalf("writing %s: %v", xlsxPath, err)
			}
			logrus.Infof("Wrote %d journal records to %s", len(records), xlsxPath)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newProgressBar builds the replication progress bar.
func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("replications"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random duration sampling")
	runCmd.Flags().IntVar(&replications, "replications", 1, "Number of independent replications to run")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write flattened journals to this CSV file")
	runCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write flattened journals to this XLSX workbook")

	rootCmd.AddCommand(runCmd)
}
