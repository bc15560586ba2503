// Package main provides the CLI entry point for kmsweep, a benchmarking
// harness that sweeps a clustering program over cluster and point counts.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/weiihann/kmsweep/config"
	"github.com/weiihann/kmsweep/harness"
	"github.com/weiihann/kmsweep/report"
	"github.com/weiihann/kmsweep/sweep"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("kmsweep failed", slog.String("error", err.Error()))

		for _, hint := range errors.GetAllHints(err) {
			logger.Error("hint", slog.String("hint", hint))
		}

		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "kmsweep",
		Short: "Sweep a clustering program over cluster and point counts",
		Long: `Kmsweep runs an external clustering program under a process launcher
for every combination of cluster count and point count, and tabulates the
runtime each run reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return level.UnmarshalText([]byte(logLevel))
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(logger, os.Stdout))
	root.AddCommand(newBuildCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger, stdout io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sweep and print one row per cluster count",
		Long: `Invoke the target once per grid cell, in cluster-count then point-count
order, and print the best runtime of each cell. The first failing run
aborts the sweep.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid config")
			}

			return runSweep(cmd.Context(), logger, stdout, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to a TOML config file")
	flags.IntSlice("clusters", nil,
		"Cluster counts to sweep (outer loop)")
	flags.IntSlice("points", nil,
		"Point counts to sweep (inner loop)")
	flags.String("launcher", "",
		`Launcher command, e.g. "mpiexec -n 4" (empty string runs the target directly)`)
	flags.String("target", "",
		"Path to the target executable")
	flags.Int("trials", 1,
		"Runs per cell; the best is reported")
	flags.Duration("timeout", 0,
		"Per-run timeout (0 = none)")
	flags.String("format", "csv",
		"Output format: "+strings.Join(report.Formats(), ", "))

	return cmd
}

// applyFlags overrides cfg with the flags that were set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error

	if flags.Changed("clusters") {
		if cfg.ClusterCounts, err = flags.GetIntSlice("clusters"); err != nil {
			return err
		}
	}

	if flags.Changed("points") {
		if cfg.PointCounts, err = flags.GetIntSlice("points"); err != nil {
			return err
		}
	}

	if flags.Changed("launcher") {
		if cfg.Launcher, err = flags.GetString("launcher"); err != nil {
			return err
		}
	}

	if flags.Changed("target") {
		if cfg.Target, err = flags.GetString("target"); err != nil {
			return err
		}
	}

	if flags.Changed("trials") {
		if cfg.Trials, err = flags.GetInt("trials"); err != nil {
			return err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}

	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}

	return nil
}

func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	stdout io.Writer,
	cfg *config.Config,
) error {
	launcher, err := harness.ParseLauncher(cfg.Launcher)
	if err != nil {
		return err
	}

	out, err := report.NewWriter(cfg.Format, stdout)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting sweep",
		slog.Any("cluster_counts", cfg.ClusterCounts),
		slog.Any("point_counts", cfg.PointCounts),
		slog.Any("launcher", launcher),
		slog.String("target", cfg.Target),
		slog.Int("trials", cfg.Trials),
	)

	runner := harness.NewRunner(nil, logger)
	runner.Timeout = cfg.Timeout

	driver := &sweep.Driver{
		Command: harness.Command{Launcher: launcher, Target: cfg.Target},
		Invoker: runner,
		Output:  out,
		Trials:  cfg.Trials,
		Logger:  logger,
	}

	if err := driver.Run(ctx, sweep.Grid{
		ClusterCounts: cfg.ClusterCounts,
		PointCounts:   cfg.PointCounts,
	}); err != nil {
		return errors.Wrap(err, "sweep")
	}

	logger.InfoContext(ctx, "sweep complete")

	return nil
}

func newBuildCmd(logger *slog.Logger) *cobra.Command {
	var (
		target    string
		sourceDir string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a target executable",
		Long: `Compile one of the known targets: "kmeans" (the Go reference target,
built with go build) or "p5" (the MPI C++ program, built with mpicxx).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sourceDir == "" {
				sourceDir = filepath.Join("harnesses", target)
			}

			srcDir, err := filepath.Abs(sourceDir)
			if err != nil {
				return errors.Wrap(err, "resolve source dir")
			}

			binPath, err := harness.Build(cmd.Context(), logger, harness.BuildConfig{
				Name:       target,
				SourceDir:  srcDir,
				BinaryPath: output,
			})
			if err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "use with kmsweep run",
				slog.String("target", binPath),
			)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&target, "target", "kmeans",
		"Target to build: "+strings.Join(harness.KnownTargets(), ", "))
	flags.StringVar(&sourceDir, "source-dir", "",
		"Source directory (default: harnesses/<target>)")
	flags.StringVar(&output, "output", "",
		"Output binary path (default: inside the source directory)")

	return cmd
}
