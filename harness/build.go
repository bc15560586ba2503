package harness

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// BuildConfig describes how to build a target executable.
type BuildConfig struct {
	Name       string
	SourceDir  string
	BinaryPath string
}

// KnownTargets returns the list of targets that can be built.
func KnownTargets() []string {
	return []string{"kmeans", "p5"}
}

// ResolveBinary returns the default binary path for a target given its
// source directory.
func ResolveBinary(sourceDir, target string) string {
	switch target {
	case "kmeans":
		return filepath.Join(sourceDir, "kmeans")
	case "p5":
		return filepath.Join(sourceDir, "p5")
	default:
		return filepath.Join(sourceDir, target)
	}
}

// buildCommand returns the compiler invocation for cfg without running it.
func buildCommand(ctx context.Context, cfg BuildConfig) (*exec.Cmd, error) {
	var cmd *exec.Cmd

	switch cfg.Name {
	case "kmeans":
		cmd = exec.CommandContext(
			ctx, "go", "build", "-o", cfg.BinaryPath, ".",
		)

	case "p5":
		cmd = exec.CommandContext(
			ctx, "mpicxx", "-O2", "-std=c++17",
			"-o", cfg.BinaryPath,
			"parallel-k-means.cpp", "cluster.cpp",
		)

	default:
		return nil, errors.Newf("unknown target %q", cfg.Name)
	}

	cmd.Dir = cfg.SourceDir

	return cmd, nil
}

// Build compiles a target and returns the path of the produced binary.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	cfg BuildConfig,
) (string, error) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = ResolveBinary(cfg.SourceDir, cfg.Name)
	}

	binPath, err := filepath.Abs(cfg.BinaryPath)
	if err != nil {
		return "", errors.Wrap(err, "resolve binary path")
	}
	cfg.BinaryPath = binPath

	logger.InfoContext(ctx, "building target",
		slog.String("target", cfg.Name),
		slog.String("source_dir", cfg.SourceDir),
	)

	cmd, err := buildCommand(ctx, cfg)
	if err != nil {
		return "", err
	}

	// Keep stdout clean for sweep output.
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "build %s", cfg.Name)
	}

	if _, err := os.Stat(binPath); err != nil {
		return "", errors.Newf(
			"build %s: binary not found at %s", cfg.Name, binPath,
		)
	}

	logger.InfoContext(ctx, "target built",
		slog.String("target", cfg.Name),
		slog.String("binary", binPath),
	)

	return binPath, nil
}
