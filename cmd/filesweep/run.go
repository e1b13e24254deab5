package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aatumaykin/filesweep/internal/config"
	"github.com/aatumaykin/filesweep/internal/enforcer"
	"github.com/aatumaykin/filesweep/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	runConfigPath string
	runDebug      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one enforcement pass",
	Long: `Run a single enforcement pass over all configured policies.
Each policy sweeps its directory on a bounded worker pool; per-file and
per-subdirectory failures are tallied but never abort the run.`,
	Run: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	// Determine config path
	configPath := runConfigPath
	if configPath == "" {
		configPath = "config.toml"
	}

	// Pick up a local .env if present
	if err := config.LoadEnvOptional(".env"); err != nil {
		fmt.Printf("❌ Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	// Enable debug mode if flag is set
	if runDebug {
		cfg.Logging.Level = "debug"
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 Starting Filesweep",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "policies", Value: len(cfg.Policies)},
		logger.Field{Key: "max_workers", Value: cfg.Enforcer.MaxWorkers})

	// Metrics are optional; the run behaves the same without them
	var metrics *enforcer.Metrics
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		metrics = enforcer.InitMetrics("filesweep", registry)
	}

	eng := enforcer.New(log, metrics)

	results, err := eng.EnforceAll(context.Background(), cfg.ToEnforcerConfiguration())
	if err != nil {
		log.Error("enforcement run aborted", err)
		os.Exit(1)
	}

	totalDeleted, totalFailed := 0, 0
	for _, res := range results {
		fmt.Printf("%s: deleted=%d failed=%d runtime=%s\n",
			res.Directory, res.Deleted, res.Failed, res.Runtime)
		totalDeleted += res.Deleted
		totalFailed += res.Failed
	}

	log.Info("run summary",
		logger.Field{Key: "policies", Value: len(results)},
		logger.Field{Key: "deleted", Value: totalDeleted},
		logger.Field{Key: "failed", Value: totalFailed})

	if cfg.Metrics.Enabled {
		if err := enforcer.WriteTextfile(cfg.Metrics.TextfilePath, registry); err != nil {
			log.Error("failed to write metrics textfile", err,
				logger.Field{Key: "path", Value: cfg.Metrics.TextfilePath})
		}
	}
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: config.toml)")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
}
