package harness

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// Invoker runs one external command to completion. The returned error is
// reserved for failures to run the command at all; exit status is part of
// the Outcome.
type Invoker interface {
	Invoke(ctx context.Context, args []string) (*Outcome, error)
}

// Runner is the exec-backed Invoker.
type Runner struct {
	// Env is appended to the inherited environment.
	Env []string
	// Timeout bounds each invocation. Zero means no limit.
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRunner creates a Runner without a timeout.
func NewRunner(env []string, logger *slog.Logger) *Runner {
	return &Runner{
		Env:    env,
		Logger: logger.With(slog.String("component", "runner")),
	}
}

// Invoke executes args[0] with the remaining arguments and blocks until it
// exits.
func (r *Runner) Invoke(ctx context.Context, args []string) (*Outcome, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.DebugContext(ctx, "starting process",
		slog.Any("args", args),
	)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	outcome := &Outcome{
		Args:    args,
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Elapsed: elapsed,
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "run %s", args[0])
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "run %s", args[0])
		}

		outcome.ExitCode = exitErr.ExitCode()
		// Killed by a signal.
		if outcome.ExitCode < 0 {
			outcome.ExitCode = -1
		}
	}

	r.Logger.DebugContext(ctx, "process exited",
		slog.Int("exit_code", outcome.ExitCode),
		slog.Duration("wall_time", elapsed),
	)

	return outcome, nil
}
