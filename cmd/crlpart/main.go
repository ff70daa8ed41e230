package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	partitionrun "github.com/rzbill/crlpart/internal/cmd/partitionrun"
	plancmd "github.com/rzbill/crlpart/internal/cmd/plans"
	cfgpkg "github.com/rzbill/crlpart/internal/config"
	logpkg "github.com/rzbill/crlpart/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	var env plancmd.Env
	var envErr error
	resolved := false

	rootCmd := &cobra.Command{
		Use:           "crlpart",
		Short:         "Partition planner for revocation filters",
		Long:          "crlpart chooses segment boundaries over time-bucketed certificate counts so that one membership filter per segment has minimal total size.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("CRLPART_CONFIG"), "Config file (JSON, or YAML by extension)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text|json")
	rootCmd.PersistentFlags().String("data-dir", "", "Plan store directory (default: OS data dir)")

	// resolveEnv layers defaults < config file < CRLPART_* env < flags.
	resolveEnv := func() (plancmd.Env, error) {
		if resolved {
			return env, envErr
		}
		resolved = true
		flags := rootCmd.PersistentFlags()
		path, _ := flags.GetString("config")
		cfg, err := cfgpkg.Load(path)
		if err != nil {
			envErr = fmt.Errorf("load config: %w", err)
			return env, envErr
		}
		cfgpkg.FromEnv(&cfg)
		if v, _ := flags.GetString("log-level"); v != "" {
			cfg.Log.Level = v
		}
		if v, _ := flags.GetString("log-format"); v != "" {
			cfg.Log.Format = v
		}
		if v, _ := flags.GetString("data-dir"); v != "" {
			cfg.StoreDir = v
		}
		logger, err := logpkg.ApplyConfig(&cfg.Log)
		if err != nil {
			envErr = err
			return env, envErr
		}
		// Pebble logs through the standard library logger.
		logpkg.RedirectStdLog(logger)
		env = plancmd.Env{Config: cfg, Logger: logger}
		return env, nil
	}

	partitionCmd := &cobra.Command{
		Use:   "partition <records-file>",
		Short: "Compute the minimum-cost segmentation of a record file",
		Long:  "Reads lines of \"timestamp, n, r\" (\"-\" for stdin, .sz for snappy) and prints the segment start times, leading with the sentinel 0.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := resolveEnv()
			if err != nil {
				return err
			}
			cfg := e.Config
			flags := cmd.Flags()
			if flags.Changed("format") {
				cfg.OutputFormat, _ = flags.GetString("format")
			}
			if noStore, _ := flags.GetBool("no-store"); noStore {
				cfg.UseStore = false
			}
			if flags.Changed("max-records") {
				cfg.MaxRecords, _ = flags.GetInt("max-records")
			}
			name, _ := flags.GetString("name")
			where, _ := flags.GetString("where")
			out, _ := flags.GetString("out")
			metrics, _ := flags.GetString("metrics-textfile")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return partitionrun.Run(ctx, partitionrun.Options{
				Input:           args[0],
				Name:            name,
				Where:           where,
				Out:             out,
				MetricsTextfile: metrics,
				Config:          cfg,
				Logger:          e.Logger.WithComponent("partition"),
			}, cmd.OutOrStdout())
		},
	}
	partitionCmd.Flags().String("name", "default", "Dataset name used as the plan store key")
	partitionCmd.Flags().String("where", "", "CEL filter over time, n, r, index (e.g. 'time >= 1735689600')")
	partitionCmd.Flags().String("format", "text", "Output format: text|json|cbor")
	partitionCmd.Flags().String("out", "", "Write output to this file instead of stdout")
	partitionCmd.Flags().Bool("no-store", false, "Do not read or write the plan store")
	partitionCmd.Flags().Int("max-records", 0, "Reject inputs with more records (0 uses config)")
	partitionCmd.Flags().String("metrics-textfile", "", "Write Prometheus gauges to this file")
	rootCmd.AddCommand(partitionCmd)

	rootCmd.AddCommand(plancmd.NewPlanCommand(resolveEnv))
	rootCmd.AddCommand(plancmd.NewCostCommand())

	err := rootCmd.ExecuteContext(context.Background())
	if env.Logger != nil {
		_ = logpkg.Close(env.Logger)
	}
	if err != nil {
		return 1
	}
	return 0
}
